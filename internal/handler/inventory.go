package handler

import (
	"net/http"

	"eventpos/internal/dto"
	"eventpos/internal/service"
	"eventpos/internal/worker"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes both per-event ledgers (products and supplies) and
// the low-stock alert feed.
type InventoryHandler struct {
	products service.ProductInventoryService
	supplies service.SupplyInventoryService
	alerts   *worker.StockAlertWorker
}

func NewInventoryHandler(
	products service.ProductInventoryService,
	supplies service.SupplyInventoryService,
	alerts *worker.StockAlertWorker,
) *InventoryHandler {
	return &InventoryHandler{products: products, supplies: supplies, alerts: alerts}
}

// ─── Product ledger ──────────────────────────────────────────────────────────

// LoadProducts godoc
// @Summary      Cargar productos al inventario de un evento
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                          true "UUID del evento"
// @Param        body body dto.LoadProductInventoryRequest true "Productos a cargar"
// @Success      201  {array} dto.ProductInventoryResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/products [post]
func (h *InventoryHandler) LoadProducts(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.LoadProductInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.products.LoadBatch(c.Request.Context(), eventID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListProducts godoc
// @Summary      Inventario de productos del evento
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "UUID del evento"
// @Param        filter query string false "available | low_stock"
// @Success      200 {array} dto.ProductInventoryResponse
// @Router       /v1/events/{id}/inventory/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		resp []dto.ProductInventoryResponse
		err  error
	)
	switch c.Query("filter") {
	case "available":
		resp, err = h.products.FindAvailable(ctx, eventID)
	case "low_stock":
		resp, err = h.products.FindLowStock(ctx, eventID)
	default:
		resp, err = h.products.FindAll(ctx, eventID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct godoc
// @Summary      Una fila del inventario de productos
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id         path string true "UUID del evento"
// @Param        product_id path string true "UUID del producto"
// @Success      200 {object} dto.ProductInventoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/products/{product_id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	resp, err := h.products.FindOne(c.Request.Context(), eventID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProduct godoc
// @Summary      Actualizar una fila del inventario de productos
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path string                            true "UUID del evento"
// @Param        product_id path string                            true "UUID del producto"
// @Param        body       body dto.UpdateProductInventoryRequest true "Cambios"
// @Success      200 {object} dto.ProductInventoryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/products/{product_id} [patch]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req dto.UpdateProductInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.products.Update(c.Request.Context(), eventID, productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DecreaseProductStock godoc
// @Summary      Descontar stock de un producto
// @Tags         inventario
// @Accept       json
// @Security     BearerAuth
// @Param        id         path string                     true "UUID del evento"
// @Param        product_id path string                     true "UUID del producto"
// @Param        body       body dto.StockAdjustmentRequest true "Cantidad"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/products/{product_id}/decrease [post]
func (h *InventoryHandler) DecreaseProductStock(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.products.DecreaseStock(c.Request.Context(), eventID, productID, req.Qty); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IncreaseProductStock godoc
// @Summary      Reponer stock de un producto
// @Tags         inventario
// @Accept       json
// @Security     BearerAuth
// @Param        id         path string                     true "UUID del evento"
// @Param        product_id path string                     true "UUID del producto"
// @Param        body       body dto.StockAdjustmentRequest true "Cantidad"
// @Success      204
// @Router       /v1/events/{id}/inventory/products/{product_id}/increase [post]
func (h *InventoryHandler) IncreaseProductStock(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.products.IncreaseStock(c.Request.Context(), eventID, productID, req.Qty); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveProduct godoc
// @Summary      Retirar un producto del inventario del evento
// @Tags         inventario
// @Security     BearerAuth
// @Param        id         path string true "UUID del evento"
// @Param        product_id path string true "UUID del producto"
// @Success      204
// @Router       /v1/events/{id}/inventory/products/{product_id} [delete]
func (h *InventoryHandler) RemoveProduct(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.products.Remove(c.Request.Context(), eventID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Supply ledger ───────────────────────────────────────────────────────────

// LoadSupplies godoc
// @Summary      Cargar insumos al inventario de un evento
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID del evento"
// @Param        body body dto.LoadSupplyInventoryRequest true "Insumos a cargar"
// @Success      201  {array} dto.SupplyInventoryResponse
// @Router       /v1/events/{id}/inventory/supplies [post]
func (h *InventoryHandler) LoadSupplies(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.LoadSupplyInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.supplies.LoadBatch(c.Request.Context(), eventID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSupplies godoc
// @Summary      Inventario de insumos del evento
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "UUID del evento"
// @Param        filter query string false "available | low_stock"
// @Success      200 {array} dto.SupplyInventoryResponse
// @Router       /v1/events/{id}/inventory/supplies [get]
func (h *InventoryHandler) ListSupplies(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		resp []dto.SupplyInventoryResponse
		err  error
	)
	switch c.Query("filter") {
	case "available":
		resp, err = h.supplies.FindAvailable(ctx, eventID)
	case "low_stock":
		resp, err = h.supplies.FindLowStock(ctx, eventID)
	default:
		resp, err = h.supplies.FindAll(ctx, eventID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSupply godoc
// @Summary      Una fila del inventario de insumos
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "UUID del evento"
// @Param        supply_id path string true "UUID del insumo"
// @Success      200 {object} dto.SupplyInventoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/supplies/{supply_id} [get]
func (h *InventoryHandler) GetSupply(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	resp, err := h.supplies.FindOne(c.Request.Context(), eventID, supplyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSupply godoc
// @Summary      Actualizar una fila del inventario de insumos
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string                           true "UUID del evento"
// @Param        supply_id path string                           true "UUID del insumo"
// @Param        body      body dto.UpdateSupplyInventoryRequest true "Cambios"
// @Success      200 {object} dto.SupplyInventoryResponse
// @Router       /v1/events/{id}/inventory/supplies/{supply_id} [patch]
func (h *InventoryHandler) UpdateSupply(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	var req dto.UpdateSupplyInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.supplies.Update(c.Request.Context(), eventID, supplyID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DecreaseSupplyStock godoc
// @Summary      Descontar stock de un insumo
// @Tags         inventario
// @Accept       json
// @Security     BearerAuth
// @Param        id        path string                     true "UUID del evento"
// @Param        supply_id path string                     true "UUID del insumo"
// @Param        body      body dto.StockAdjustmentRequest true "Cantidad"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/events/{id}/inventory/supplies/{supply_id}/decrease [post]
func (h *InventoryHandler) DecreaseSupplyStock(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.supplies.DecreaseStock(c.Request.Context(), eventID, supplyID, req.Qty); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IncreaseSupplyStock godoc
// @Summary      Reponer stock de un insumo
// @Tags         inventario
// @Accept       json
// @Security     BearerAuth
// @Param        id        path string                     true "UUID del evento"
// @Param        supply_id path string                     true "UUID del insumo"
// @Param        body      body dto.StockAdjustmentRequest true "Cantidad"
// @Success      204
// @Router       /v1/events/{id}/inventory/supplies/{supply_id}/increase [post]
func (h *InventoryHandler) IncreaseSupplyStock(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.supplies.IncreaseStock(c.Request.Context(), eventID, supplyID, req.Qty); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveSupply godoc
// @Summary      Retirar un insumo del inventario del evento
// @Tags         inventario
// @Security     BearerAuth
// @Param        id        path string true "UUID del evento"
// @Param        supply_id path string true "UUID del insumo"
// @Success      204
// @Router       /v1/events/{id}/inventory/supplies/{supply_id} [delete]
func (h *InventoryHandler) RemoveSupply(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	if err := h.supplies.Remove(c.Request.Context(), eventID, supplyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Alerts ──────────────────────────────────────────────────────────────────

// ListAlerts godoc
// @Summary      Alertas recientes de stock bajo del evento
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      200 {array} worker.StockAlertPayload
// @Router       /v1/events/{id}/alerts [get]
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	alerts, err := h.alerts.ListAlerts(c.Request.Context(), eventID.String(), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
