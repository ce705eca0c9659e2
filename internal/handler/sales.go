package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	svc   service.SaleService
	stats service.StatsService
}

func NewSalesHandler(svc service.SaleService, stats service.StatsService) *SalesHandler {
	return &SalesHandler{svc: svc, stats: stats}
}

// ListByEvent godoc
// @Summary      Ventas del evento
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "UUID del evento"
// @Param        method query string false "EFECTIVO | TRANSFERENCIA"
// @Param        status query string false "COMPLETED | CANCELLED"
// @Success      200 {array} dto.SaleResponse
// @Router       /v1/events/{id}/sales [get]
func (h *SalesHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.SaleFilter
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

// GetTotals godoc
// @Summary      Totales de ventas del evento
// @Description  Conteos y montos completados/cancelados con desglose por método de pago.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      200 {object} dto.SaleTotalsResponse
// @Router       /v1/events/{id}/sales/totals [get]
func (h *SalesHandler) GetTotals(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetTotals(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary      Estadísticas del evento
// @Description  Rankings de productos, porcentaje de desperdicio e inversión total.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      200 {object} dto.EventStatsResponse
// @Router       /v1/events/{id}/stats [get]
func (h *SalesHandler) GetStats(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.stats.GetStats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByOrder godoc
// @Summary      Venta asociada a una orden
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "UUID de la orden"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{order_id}/sale [get]
func (h *SalesHandler) GetByOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.FindByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Obtener una venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        sale_id path string true "UUID de la venta"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{sale_id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := parseUUIDParam(c, "sale_id")
	if !ok {
		return
	}
	resp, err := h.svc.FindOne(c.Request.Context(), saleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
