package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Crear producto
// @Description  Si existe un producto inactivo con el mismo nombre normalizado, lo reactiva.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Nuevo producto"
// @Success      201  {object} dto.ProductResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Solo productos activos"
// @Success      200 {array} dto.ProductResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	var (
		resp []dto.ProductResponse
		err  error
	)
	if c.Query("active") == "true" {
		resp, err = h.svc.FindAllActive(c.Request.Context(), p)
	} else {
		resp, err = h.svc.FindAll(c.Request.Context(), p)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Buscar productos por nombre
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        term query string true "Término de búsqueda"
// @Success      200 {array} dto.ProductResponse
// @Router       /v1/products/search [get]
func (h *ProductsHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if req.Term == "" {
		c.JSON(http.StatusBadRequest, apierror.New("term es obligatorio"))
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Obtener un producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del producto"
// @Param        body body dto.UpdateProductRequest true "Cambios"
// @Success      200  {object} dto.ProductResponse
// @Router       /v1/products/{id} [patch]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove godoc
// @Summary      Eliminar producto (soft delete)
// @Tags         productos
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      204
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Remove(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Recipe ──────────────────────────────────────────────────────────────────

// AssignSupplies godoc
// @Summary      Asignar insumos a la receta de un producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID del producto"
// @Param        body body dto.AssignSuppliesRequest true "Insumos con cantidad por unidad"
// @Success      201  {array} dto.RecipeLineResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/products/{id}/supplies [post]
func (h *ProductsHandler) AssignSupplies(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AssignSuppliesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AssignSupplies(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSupplies godoc
// @Summary      Obtener la receta de un producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {array} dto.RecipeLineResponse
// @Router       /v1/products/{id}/supplies [get]
func (h *ProductsHandler) GetSupplies(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetSupplies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSupplyQuantity godoc
// @Summary      Actualizar la cantidad por unidad de un insumo en la receta
// @Tags         productos
// @Accept       json
// @Security     BearerAuth
// @Param        id        path string                          true "UUID del producto"
// @Param        supply_id path string                          true "UUID del insumo"
// @Param        body      body dto.UpdateSupplyQuantityRequest true "Nueva cantidad"
// @Success      204
// @Router       /v1/products/{id}/supplies/{supply_id} [patch]
func (h *ProductsHandler) UpdateSupplyQuantity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	var req dto.UpdateSupplyQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateSupplyQuantity(c.Request.Context(), id, supplyID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveSupply godoc
// @Summary      Quitar un insumo de la receta
// @Tags         productos
// @Security     BearerAuth
// @Param        id        path string true "UUID del producto"
// @Param        supply_id path string true "UUID del insumo"
// @Success      204
// @Router       /v1/products/{id}/supplies/{supply_id} [delete]
func (h *ProductsHandler) RemoveSupply(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	supplyID, ok := parseUUIDParam(c, "supply_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveSupply(c.Request.Context(), id, supplyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
