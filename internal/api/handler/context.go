package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront/internal/api/middleware"
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// requester reads the identity injected by Auth or OptionalAuth. Anonymous
// requests yield the zero Requester.
func requester(c echo.Context) ports.Requester {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	role, _ := c.Get(middleware.KeyRole).(string)
	return ports.Requester{UserID: userID, Role: domain.Role(role)}
}

// requireUser is requester for routes that need a signed-in caller. The user
// id check is a fast fail in case a route was mounted without Auth.
func requireUser(c echo.Context) (ports.Requester, error) {
	who := requester(c)
	if who.UserID == "" {
		return ports.Requester{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return who, nil
}
