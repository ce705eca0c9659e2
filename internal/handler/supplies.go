package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliesHandler struct{ svc service.SupplyService }

func NewSuppliesHandler(svc service.SupplyService) *SuppliesHandler {
	return &SuppliesHandler{svc: svc}
}

// Create godoc
// @Summary      Crear insumo
// @Description  Si existe un insumo inactivo con el mismo nombre normalizado, lo reactiva con la unidad y costo nuevos.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplyRequest true "Nuevo insumo"
// @Success      201  {object} dto.SupplyResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/supplies [post]
func (h *SuppliesHandler) Create(c *gin.Context) {
	var req dto.CreateSupplyRequest
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
// @Summary      Listar insumos
// @Tags         insumos
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Solo insumos activos"
// @Success      200 {array} dto.SupplyResponse
// @Router       /v1/supplies [get]
func (h *SuppliesHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	var (
		resp []dto.SupplyResponse
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
// @Summary      Buscar insumos por nombre
// @Tags         insumos
// @Produce      json
// @Security     BearerAuth
// @Param        term query string true "Término de búsqueda"
// @Success      200 {array} dto.SupplyResponse
// @Router       /v1/supplies/search [get]
func (h *SuppliesHandler) Search(c *gin.Context) {
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
// @Summary      Obtener un insumo
// @Tags         insumos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del insumo"
// @Success      200 {object} dto.SupplyResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/supplies/{id} [get]
func (h *SuppliesHandler) Get(c *gin.Context) {
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
// @Summary      Actualizar insumo
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del insumo"
// @Param        body body dto.UpdateSupplyRequest true "Cambios"
// @Success      200  {object} dto.SupplyResponse
// @Router       /v1/supplies/{id} [patch]
func (h *SuppliesHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupplyRequest
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
// @Summary      Eliminar insumo (soft delete)
// @Tags         insumos
// @Security     BearerAuth
// @Param        id path string true "UUID del insumo"
// @Success      204
// @Router       /v1/supplies/{id} [delete]
func (h *SuppliesHandler) Remove(c *gin.Context) {
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

// GetProducts godoc
// @Summary      Productos cuya receta usa el insumo
// @Tags         insumos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del insumo"
// @Success      200 {array} dto.ProductResponse
// @Router       /v1/supplies/{id}/products [get]
func (h *SuppliesHandler) GetProducts(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
