package dto

import "github.com/shopspring/decimal"

type CreateOrderItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty"        validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items         []CreateOrderItem `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=EFECTIVO TRANSFERENCIA"`
	Observations  *string           `json:"observations"`
}

// OrderFilter is bound from the query string of the admin order list.
type OrderFilter struct {
	Status      string `form:"status"       validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	CreatedBy   string `form:"created_by"   validate:"omitempty,uuid"`
	OrderNumber int    `form:"order_number" validate:"omitempty,min=1"`
}

type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Status      string          `json:"status"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	EventID      string              `json:"event_id"`
	OrderNumber  int                 `json:"order_number"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Observations *string             `json:"observations,omitempty"`
	CreatedBy    string              `json:"created_by"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    string              `json:"created_at"`
}

// ─── Kitchen ─────────────────────────────────────────────────────────────────

type KitchenRecipeLine struct {
	SupplyName  string          `json:"supply_name"`
	Unit        string          `json:"unit"`
	QtyPerUnit  decimal.Decimal `json:"qty_per_unit"`
	TotalNeeded decimal.Decimal `json:"total_needed"`
}

type KitchenItemResponse struct {
	ProductName string              `json:"product_name"`
	Qty         int                 `json:"qty"`
	Status      string              `json:"status"`
	Recipe      []KitchenRecipeLine `json:"recipe"`
}

type KitchenOrderResponse struct {
	ID          string                `json:"id"`
	OrderNumber int                   `json:"order_number"`
	Status      string                `json:"status"`
	Items       []KitchenItemResponse `json:"items"`
}
