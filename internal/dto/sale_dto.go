package dto

import "github.com/shopspring/decimal"

// SaleFilter is bound from the query string of GET sales by event.
type SaleFilter struct {
	Method string `form:"method" validate:"omitempty,oneof=EFECTIVO TRANSFERENCIA"`
	Status string `form:"status" validate:"omitempty,oneof=COMPLETED CANCELLED"`
}

type SaleResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
}

// MethodBucket aggregates one payment method's completed and cancelled sales.
type MethodBucket struct {
	CompletedCount  int             `json:"completed_count"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	CancelledCount  int             `json:"cancelled_count"`
	CancelledAmount decimal.Decimal `json:"cancelled_amount"`
	Net             decimal.Decimal `json:"net"`
}

type SaleTotalsResponse struct {
	TotalSales     int                     `json:"total_sales"`
	CompletedSales int                     `json:"completed_sales"`
	CancelledSales int                     `json:"cancelled_sales"`
	TotalRevenue   decimal.Decimal         `json:"total_revenue"`
	TotalRefunds   decimal.Decimal         `json:"total_refunds"`
	NetRevenue     decimal.Decimal         `json:"net_revenue"`
	ByMethod       map[string]MethodBucket `json:"by_method"`
}
