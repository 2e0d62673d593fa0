package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/vendormart/backend/internal/application/fulfillment"
	"github.com/vendormart/backend/internal/domain/shared"
	"github.com/vendormart/backend/internal/interfaces/http/dto"
	"github.com/vendormart/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order fulfillment tracking API endpoints
type OrderHandler struct {
	BaseHandler
	service *app.TrackingService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *app.TrackingService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes on the given router group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/order")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/summary", h.Summary)
		orders.GET("/statuses", h.Catalog)
		orders.GET("/track/:trackingNumber", h.GetByTrackingNumber)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/timeline", h.Timeline)
		orders.GET("/:id/statuses", h.SelectableStatuses)
		orders.POST("/:id/tracking", h.AppendTracking)
		orders.PATCH("/:id/confirm-payment", h.ConfirmPayment)
	}

	admin := rg.Group("/admin/orders")
	{
		admin.POST("/:id/status", h.AppendTracking)
	}
}

// adminAttribution reads the acting admin's identity from request headers.
// Authentication happens upstream at the gateway; these headers are
// informational attribution only.
func adminAttribution(c *gin.Context) app.AttributionDTO {
	return app.AttributionDTO{
		Name:  c.GetHeader("X-Admin-Name"),
		Email: c.GetHeader("X-Admin-Email"),
	}
}

// Create godoc
// @Summary      Register a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body app.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=app.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /order [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req app.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search in order number, customer and tracking number"
// @Param        status query string false "Filter by current status"
// @Param        order_type query string false "Filter by order type"
// @Success      200 {object} dto.Response{data=[]app.OrderResponse}
// @Router       /order [get]
func (h *OrderHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if orderType := c.Query("order_type"); orderType != "" {
		filter.Filters["order_type"] = orderType
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		filter.Filters["payment_status"] = paymentStatus
	}

	page, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Get an order with its tracking history
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=app.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /order/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByTrackingNumber godoc
// @Summary      Look up an order by carrier tracking number
// @Tags         orders
// @Produce      json
// @Param        trackingNumber path string true "Carrier tracking number"
// @Success      200 {object} dto.Response{data=app.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /order/track/{trackingNumber} [get]
func (h *OrderHandler) GetByTrackingNumber(c *gin.Context) {
	resp, err := h.service.GetOrderByTrackingNumber(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Timeline godoc
// @Summary      Get the display timeline for an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=app.TimelineResponse}
// @Router       /order/{id}/timeline [get]
func (h *OrderHandler) Timeline(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	resp, err := h.service.Timeline(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SelectableStatuses godoc
// @Summary      List the statuses an admin may pick for an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=[]app.StatusDescriptorResponse}
// @Router       /order/{id}/statuses [get]
func (h *OrderHandler) SelectableStatuses(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	resp, err := h.service.SelectableStatuses(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Catalog godoc
// @Summary      List the full status catalog
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]app.StatusDescriptorResponse}
// @Router       /order/statuses [get]
func (h *OrderHandler) Catalog(c *gin.Context) {
	h.Success(c, h.service.AllStatuses())
}

// Summary godoc
// @Summary      Order counts per current status
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]app.StatusCountResponse}
// @Router       /order/summary [get]
func (h *OrderHandler) Summary(c *gin.Context) {
	resp, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AppendTracking godoc
// @Summary      Append a tracking update to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        X-Admin-Name header string false "Acting admin name"
// @Param        X-Admin-Email header string false "Acting admin email"
// @Param        request body app.AppendTrackingRequest true "Tracking update"
// @Success      200 {object} dto.Response{data=app.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /order/{id}/tracking [post]
func (h *OrderHandler) AppendTracking(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req app.AppendTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.AppendTracking(c.Request.Context(), id, &req, adminAttribution(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmPayment godoc
// @Summary      Confirm payment for an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=app.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /order/{id}/confirm-payment [patch]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	resp, err := h.service.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	return id, true
}
