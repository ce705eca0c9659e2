package dto

import "github.com/shopspring/decimal"

// ─── Product inventory ───────────────────────────────────────────────────────

// LoadProductItem is one row of a bulk product-inventory load. Cost is
// optional for recipe-bearing products (derived from supply costs when
// absent) and mandatory for the rest.
type LoadProductItem struct {
	ProductID  string           `json:"product_id"  validate:"required,uuid"`
	InitialQty decimal.Decimal  `json:"initial_qty" validate:"required"`
	MinQty     decimal.Decimal  `json:"min_qty"`
	Cost       *decimal.Decimal `json:"cost"`
	SalePrice  decimal.Decimal  `json:"sale_price"  validate:"required"`
}

type LoadProductInventoryRequest struct {
	Products []LoadProductItem `json:"products" validate:"required,min=1,dive"`
}

type UpdateProductInventoryRequest struct {
	InitialQty *decimal.Decimal `json:"initial_qty"`
	MinQty     *decimal.Decimal `json:"min_qty"`
	Cost       *decimal.Decimal `json:"cost"`
	SalePrice  *decimal.Decimal `json:"sale_price"`
}

type ProductInventoryResponse struct {
	EventID      string          `json:"event_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	InitialQty   decimal.Decimal `json:"initial_qty"`
	CurrentQty   decimal.Decimal `json:"current_qty"`
	MinQty       decimal.Decimal `json:"min_qty"`
	Cost         decimal.Decimal `json:"cost"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	HasRecipe    bool            `json:"has_recipe"`
	IsActive     bool            `json:"is_active"`
}

// ─── Supply inventory ────────────────────────────────────────────────────────

type LoadSupplyItem struct {
	SupplyID   string          `json:"supply_id"   validate:"required,uuid"`
	InitialQty decimal.Decimal `json:"initial_qty" validate:"required"`
	MinQty     decimal.Decimal `json:"min_qty"`
	Cost       decimal.Decimal `json:"cost"`
}

type LoadSupplyInventoryRequest struct {
	Supplies []LoadSupplyItem `json:"supplies" validate:"required,min=1,dive"`
}

type UpdateSupplyInventoryRequest struct {
	InitialQty *decimal.Decimal `json:"initial_qty"`
	MinQty     *decimal.Decimal `json:"min_qty"`
	Cost       *decimal.Decimal `json:"cost"`
}

type SupplyInventoryResponse struct {
	EventID    string          `json:"event_id"`
	SupplyID   string          `json:"supply_id"`
	SupplyName string          `json:"supply_name"`
	Unit       string          `json:"unit"`
	InitialQty decimal.Decimal `json:"initial_qty"`
	CurrentQty decimal.Decimal `json:"current_qty"`
	MinQty     decimal.Decimal `json:"min_qty"`
	Cost       decimal.Decimal `json:"cost"`
	IsActive   bool            `json:"is_active"`
}

// StockAdjustmentRequest covers manual increase/decrease of one inventory row.
type StockAdjustmentRequest struct {
	Qty decimal.Decimal `json:"qty" validate:"required"`
}
