package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eventpos/internal/apierror"
	"eventpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// MenuItem is the public view of one sellable product: name, price and
// whether any stock remains. Costs and margins never leave the back office.
type MenuItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type MenuResponse struct {
	EventID   string     `json:"event_id"`
	EventName string     `json:"event_name"`
	Items     []MenuItem `json:"items"`
}

// MenuHandler serves the public event menu. No authentication required —
// read-only, served from a short-lived Redis cache to survive rush-hour
// traffic without hitting Postgres.
type MenuHandler struct {
	events    service.EventService
	inventory service.ProductInventoryService
	rdb       *redis.Client
	ttl       time.Duration
}

func NewMenuHandler(
	events service.EventService,
	inventory service.ProductInventoryService,
	rdb *redis.Client,
	ttl time.Duration,
) *MenuHandler {
	return &MenuHandler{events: events, inventory: inventory, rdb: rdb, ttl: ttl}
}

// GetMenu godoc
// @Summary      Menú público del evento (sin autenticación)
// @Tags         menu
// @Produce      json
// @Param        id path string true "UUID del evento"
// @Success      200 {object} handler.MenuResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/events/{id}/menu [get]
func (h *MenuHandler) GetMenu(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cacheKey := "menu:" + eventID.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp MenuResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	event, err := h.events.FindOne(ctx, eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !event.IsActive || event.IsClosed {
		c.JSON(http.StatusNotFound, apierror.New("El evento no está disponible"))
		return
	}

	rows, err := h.inventory.FindAll(ctx, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := MenuResponse{
		EventID:   event.ID,
		EventName: event.Name,
		Items:     make([]MenuItem, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Items = append(resp.Items, MenuItem{
			ProductID: row.ProductID,
			Name:      row.ProductName,
			Price:     row.SalePrice,
			Available: row.CurrentQty.IsPositive(),
		})
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
	}

	c.JSON(http.StatusOK, resp)
}
