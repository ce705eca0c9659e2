package dto

import "github.com/shopspring/decimal"

type CreateSupplyRequest struct {
	Name string          `json:"name" validate:"required,min=2,max=100"`
	Unit string          `json:"unit" validate:"required,oneof=kg g lt ml unidad paquete"`
	Cost decimal.Decimal `json:"cost" validate:"required"`
}

type UpdateSupplyRequest struct {
	Name string           `json:"name" validate:"omitempty,min=2,max=100"`
	Unit string           `json:"unit" validate:"omitempty,oneof=kg g lt ml unidad paquete"`
	Cost *decimal.Decimal `json:"cost"`
}

type SupplyResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Cost     decimal.Decimal `json:"cost"`
	IsActive bool            `json:"is_active"`
}
