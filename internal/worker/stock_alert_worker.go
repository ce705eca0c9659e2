package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// alertLogPrefix keys the per-event alert history list in Redis.
const (
	alertLogPrefix  = "alerts:"
	alertLogMaxLen  = 200
	alertLogExpires = 7 * 24 * time.Hour
)

// StockAlertPayload is the job envelope sent to QueueStockAlerts whenever a
// deduction leaves an inventory row at or below its minimum.
type StockAlertPayload struct {
	EventID    string `json:"event_id"`
	ItemType   string `json:"item_type"` // "product" | "supply"
	ItemName   string `json:"item_name"`
	CurrentQty string `json:"current_qty"`
	MinQty     string `json:"min_qty"`
	OccurredAt string `json:"occurred_at"` // ISO 8601
}

// StockAlertWorker records low-stock alerts into a capped per-event Redis list
// so the dashboard can surface them without hitting Postgres.
type StockAlertWorker struct {
	rdb *redis.Client
}

func NewStockAlertWorker(rdb *redis.Client) *StockAlertWorker {
	return &StockAlertWorker{rdb: rdb}
}

func (w *StockAlertWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return
	}
	if payload.EventID == "" || payload.ItemName == "" {
		log.Warn().Msg("stock_alert_worker: incomplete payload — skipping")
		return
	}

	key := alertLogPrefix + payload.EventID
	pipe := w.rdb.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, alertLogMaxLen-1)
	pipe.Expire(ctx, key, alertLogExpires)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("event_id", payload.EventID).Msg("stock_alert_worker: failed to record alert")
		return
	}

	log.Warn().
		Str("event_id", payload.EventID).
		Str("item_type", payload.ItemType).
		Str("item", payload.ItemName).
		Str("current_qty", payload.CurrentQty).
		Str("min_qty", payload.MinQty).
		Msg("stock_alert_worker: low stock")
}

// ListAlerts returns the most recent alerts recorded for an event.
func (w *StockAlertWorker) ListAlerts(ctx context.Context, eventID string, limit int64) ([]StockAlertPayload, error) {
	if limit <= 0 {
		limit = 50
	}
	raws, err := w.rdb.LRange(ctx, alertLogPrefix+eventID, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]StockAlertPayload, 0, len(raws))
	for _, r := range raws {
		var p StockAlertPayload
		if err := json.Unmarshal([]byte(r), &p); err != nil {
			continue
		}
		alerts = append(alerts, p)
	}
	return alerts, nil
}
