package handler

import (
	"net/http"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct{ svc service.EventService }

func NewEventsHandler(svc service.EventService) *EventsHandler { return &EventsHandler{svc: svc} }

// Create godoc
// @Summary      Crear evento
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateEventRequest true "Nuevo evento"
// @Success      201  {object} dto.EventResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/events [post]
func (h *EventsHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
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
// @Summary      Listar eventos
// @Tags         eventos
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Solo eventos activos"
// @Param        limit  query int  false "Registros por página (default 10)"
// @Param        offset query int  false "Desplazamiento (default 0)"
// @Success      200 {array} dto.EventResponse
// @Router       /v1/events [get]
func (h *EventsHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	var (
		resp []dto.EventResponse
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

// Get godoc
// @Summary      Obtener un evento
// @Tags         eventos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      200 {object} dto.EventResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/events/{id} [get]
func (h *EventsHandler) Get(c *gin.Context) {
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
// @Summary      Actualizar evento
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del evento"
// @Param        body body dto.UpdateEventRequest true "Cambios"
// @Success      200  {object} dto.EventResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/events/{id} [patch]
func (h *EventsHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
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

// Activate godoc
// @Summary      Activar evento
// @Tags         eventos
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      204
// @Router       /v1/events/{id}/activate [post]
func (h *EventsHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Activate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Deactivate godoc
// @Summary      Desactivar evento
// @Tags         eventos
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      204
// @Router       /v1/events/{id}/deactivate [post]
func (h *EventsHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Close godoc
// @Summary      Cerrar evento (terminal)
// @Tags         eventos
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/events/{id}/close [post]
func (h *EventsHandler) Close(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Close(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove godoc
// @Summary      Eliminar evento (soft delete)
// @Tags         eventos
// @Security     BearerAuth
// @Param        id path string true "UUID del evento"
// @Success      204
// @Router       /v1/events/{id} [delete]
func (h *EventsHandler) Remove(c *gin.Context) {
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
