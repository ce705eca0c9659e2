package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/middleware"
	"eventpos/internal/model"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Crear orden
// @Description  Registra la orden y su venta en una transacción. La orden nace PENDING; el stock se reserva al iniciar la preparación.
// @Tags         ordenes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del evento"
// @Param        body body dto.CreateOrderRequest true "Detalle de la orden"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/events/{id}/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), eventID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByEvent godoc
// @Summary      Listar órdenes del evento
// @Description  Un cajero solo ve sus propias órdenes; un administrador las ve todas y puede filtrar.
// @Tags         ordenes
// @Produce      json
// @Security     BearerAuth
// @Param        id           path  string true  "UUID del evento"
// @Param        status       query string false "PENDING | IN_PROGRESS | COMPLETED | CANCELLED"
// @Param        created_by   query string false "UUID del usuario creador"
// @Param        order_number query int    false "Número de orden"
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/events/{id}/orders [get]
func (h *OrdersHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	// A cajero without the admin role is confined to their own orders.
	if !claims.HasRole(model.RoleAdmin) {
		userID, _ := uuid.Parse(claims.UserID)
		resp, err := h.svc.FindByUser(c.Request.Context(), eventID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.FindByEvent(c.Request.Context(), eventID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Obtener una orden
// @Tags         ordenes
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{order_id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.FindOne(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Non-admins may only read their own orders.
	claims := middleware.GetClaims(c)
	if !claims.HasRole(model.RoleAdmin) && resp.CreatedBy != claims.UserID {
		c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Description  Solo una orden PENDING puede cancelarse; la venta asociada pasa a CANCELLED. No se restaura stock.
// @Tags         ordenes
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders/{order_id} [delete]
func (h *OrdersHandler) Cancel(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
