package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront/internal/api/metrics"
	"github.com/shopfront/storefront/internal/core/ports"
)

// OrderHandler handles checkout, order history and tracking lookups.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders. Guests may check out without a token.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.Request().Context(), toCreateOrderInput(req, requester(c)))
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.PaymentInfo.Method).Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"), requester(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListMine handles GET /orders/user.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /orders/user [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	who, err := requireUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListUserOrders(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Track handles GET /orders/:id/tracking.
//
// @Summary      Track an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  trackingResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id}/tracking [get]
func (h *OrderHandler) Track(c echo.Context) error {
	tracking, err := h.service.Track(c.Request().Context(), c.Param("id"), requester(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(tracking))
}
