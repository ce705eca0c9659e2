package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateProductRequest struct {
	Name string `json:"name" validate:"omitempty,min=2,max=100"`
}

type SearchRequest struct {
	Term string `form:"term" validate:"required,min=1"`
	Pagination
}

type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HasRecipe bool   `json:"has_recipe"`
	IsActive  bool   `json:"is_active"`
}

// ─── Recipe ──────────────────────────────────────────────────────────────────

type AssignSupplyItem struct {
	SupplyID   string          `json:"supply_id"    validate:"required,uuid"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit" validate:"required"`
}

type AssignSuppliesRequest struct {
	Supplies []AssignSupplyItem `json:"supplies" validate:"required,min=1,dive"`
}

type UpdateSupplyQuantityRequest struct {
	QtyPerUnit decimal.Decimal `json:"qty_per_unit" validate:"required"`
}

type RecipeLineResponse struct {
	SupplyID   string          `json:"supply_id"`
	SupplyName string          `json:"supply_name"`
	Unit       string          `json:"unit"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
}
