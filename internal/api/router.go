package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/api/handler"
	"github.com/shopfront/storefront/internal/api/middleware"
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
	infrahttp "github.com/shopfront/storefront/internal/infrastructure/http"
	"github.com/shopfront/storefront/internal/infrastructure/http/handlers"
)

// apiPrefix matches the client's default base URL.
const apiPrefix = "/api"

// Deps carries everything the router wires into handlers.
type Deps struct {
	AuthService    ports.AuthService
	OrderService   ports.OrderService
	ProductService ports.ProductService
	Dispatcher     handler.EventDispatcher
	JWTSecret      string
	Checks         []handlers.Check
	Log            zerolog.Logger
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "storefront",
		Subsystem:                 "http",
		Registerer:                d.Registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(requestLogger(d.Log))

	// --- Ops routes (no auth required) ---
	infrahttp.RegisterOps(e, d.Checks...)

	auth := middleware.Auth(d.JWTSecret)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret)
	api := e.Group(apiPrefix)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, auth)

	// --- Order routes ---
	// /orders/user is registered before /orders/:id; Echo prefers static segments anyway.
	orderHandler := handler.NewOrderHandler(d.OrderService)
	api.POST("/orders", orderHandler.Create, optionalAuth)
	api.GET("/orders/user", orderHandler.ListMine, auth)
	api.GET("/orders/:id", orderHandler.Get, optionalAuth)
	api.GET("/orders/:id/tracking", orderHandler.Track, optionalAuth)

	// --- Tracking event ingestion ---
	eventHandler := handler.NewEventHandler(d.Dispatcher)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleDelivery)
	api.POST("/tracking/events", eventHandler.Receive, auth, staff)
	api.POST("/tracking/events/batch", eventHandler.ReceiveBatch, auth, staff)

	// --- Catalog ---
	productHandler := handler.NewProductHandler(d.ProductService)
	api.GET("/products", productHandler.List)
	api.POST("/products", productHandler.Create, auth, middleware.RBAC(domain.RoleAdmin))

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
