package service

import (
	"context"
	"time"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService reads and amends the sales ledger. Sales are only ever created
// inside the order-creation transaction; cancellation is one-way.
type SaleService interface {
	FindByEvent(ctx context.Context, eventID uuid.UUID, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	FindOne(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*dto.SaleResponse, error)
	CancelByOrder(ctx context.Context, orderID uuid.UUID) error
	GetTotals(ctx context.Context, eventID uuid.UUID) (*dto.SaleTotalsResponse, error)
}

type saleService struct {
	repo      repository.SaleRepository
	eventRepo repository.EventRepository
}

func NewSaleService(repo repository.SaleRepository, eventRepo repository.EventRepository) SaleService {
	return &saleService{repo: repo, eventRepo: eventRepo}
}

func (s *saleService) FindByEvent(ctx context.Context, eventID uuid.UUID, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", eventID)
	}
	sales, err := s.repo.ListByEvent(ctx, eventID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		resp[i] = *saleToResponse(&sales[i])
	}
	return resp, nil
}

func (s *saleService) FindOne(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, apierror.NotFound("venta %s no encontrada", saleID)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) FindByOrder(ctx context.Context, orderID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("la orden %s no tiene venta registrada", orderID)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) CancelByOrder(ctx context.Context, orderID uuid.UUID) error {
	sale, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return apierror.NotFound("la orden %s no tiene venta registrada", orderID)
	}
	if sale.Status == model.SaleCancelled {
		return apierror.InvalidState("la venta ya está cancelada")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, sale.ID, model.SaleCancelled)
	})
}

func (s *saleService) GetTotals(ctx context.Context, eventID uuid.UUID) (*dto.SaleTotalsResponse, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", eventID)
	}
	sales, err := s.repo.ListByEvent(ctx, eventID, dto.SaleFilter{})
	if err != nil {
		return nil, err
	}
	return aggregateSales(sales), nil
}

// aggregateSales folds the ledger into totals. Revenue counts completed sales
// only; cancelled amounts are refunds, and net = completed − cancelled both
// globally and per payment method.
func aggregateSales(sales []model.Sale) *dto.SaleTotalsResponse {
	totals := &dto.SaleTotalsResponse{
		TotalRevenue: decimal.Zero,
		TotalRefunds: decimal.Zero,
		NetRevenue:   decimal.Zero,
		ByMethod:     map[string]dto.MethodBucket{},
	}
	for _, sale := range sales {
		totals.TotalSales++

		bucket := totals.ByMethod[sale.Method]
		if sale.Status == model.SaleCancelled {
			totals.CancelledSales++
			totals.TotalRefunds = totals.TotalRefunds.Add(sale.Amount)
			bucket.CancelledCount++
			bucket.CancelledAmount = bucket.CancelledAmount.Add(sale.Amount)
		} else {
			totals.CompletedSales++
			totals.TotalRevenue = totals.TotalRevenue.Add(sale.Amount)
			bucket.CompletedCount++
			bucket.CompletedAmount = bucket.CompletedAmount.Add(sale.Amount)
		}
		bucket.Net = bucket.CompletedAmount.Sub(bucket.CancelledAmount)
		totals.ByMethod[sale.Method] = bucket
	}
	totals.NetRevenue = totals.TotalRevenue.Sub(totals.TotalRefunds)
	return totals
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:        sale.ID.String(),
		OrderID:   sale.OrderID.String(),
		Method:    sale.Method,
		Amount:    sale.Amount,
		Status:    sale.Status,
		CreatedAt: sale.CreatedAt.Format(time.RFC3339),
	}
}
