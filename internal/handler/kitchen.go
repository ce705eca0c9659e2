package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/model"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
)

type KitchenHandler struct{ svc service.KitchenService }

func NewKitchenHandler(svc service.KitchenService) *KitchenHandler {
	return &KitchenHandler{svc: svc}
}

// ListOrders godoc
// @Summary      Órdenes del evento para cocina
// @Description  Por defecto lista las pendientes, en orden de llegada.
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "UUID del evento"
// @Param        status query string false "PENDING | IN_PROGRESS | COMPLETED"
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/events/{id}/kitchen/orders [get]
func (h *KitchenHandler) ListOrders(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	status := c.Query("status")
	if status == "" {
		status = model.StatusPending
	}
	switch status {
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, apierror.New("status inválido"))
		return
	}
	resp, err := h.svc.FindByStatus(c.Request.Context(), eventID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary      Orden con sus recetas expandidas
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      200 {object} dto.KitchenOrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/kitchen/orders/{order_id} [get]
func (h *KitchenHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.GetOrderWithRecipes(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartPreparation godoc
// @Summary      Iniciar preparación
// @Description  PENDING → IN_PROGRESS. Descuenta el stock de productos; si algún producto no alcanza, la transacción se revierte.
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      200 {object} dto.OrderResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/kitchen/orders/{order_id}/start [post]
func (h *KitchenHandler) StartPreparation(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.StartPreparation(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompletePreparation godoc
// @Summary      Completar preparación
// @Description  IN_PROGRESS → COMPLETED. Descuenta los insumos de receta (cantidad × cantidad por unidad).
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      200 {object} dto.OrderResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/kitchen/orders/{order_id}/complete [post]
func (h *KitchenHandler) CompletePreparation(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.CompletePreparation(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
