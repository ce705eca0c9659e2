package service

import (
	"context"
	"sort"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const rankingSize = 5

// StatsService derives the end-of-event report: sales totals, per-product
// rankings and the investment figure. It is read-only; nothing here mutates
// state.
type StatsService interface {
	GetStats(ctx context.Context, eventID uuid.UUID) (*dto.EventStatsResponse, error)
}

type statsService struct {
	eventRepo  repository.EventRepository
	orderRepo  repository.OrderRepository
	saleRepo   repository.SaleRepository
	productInv repository.ProductInventoryRepository
	supplyInv  repository.SupplyInventoryRepository
}

func NewStatsService(
	eventRepo repository.EventRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	productInv repository.ProductInventoryRepository,
	supplyInv repository.SupplyInventoryRepository,
) StatsService {
	return &statsService{
		eventRepo:  eventRepo,
		orderRepo:  orderRepo,
		saleRepo:   saleRepo,
		productInv: productInv,
		supplyInv:  supplyInv,
	}
}

// productTally accumulates order-item figures per product while walking the
// event's orders.
type productTally struct {
	name    string
	qtySold decimal.Decimal
	revenue decimal.Decimal
}

func (s *statsService) GetStats(ctx context.Context, eventID uuid.UUID) (*dto.EventStatsResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", eventID)
	}

	orders, err := s.orderRepo.ListByEvent(ctx, eventID, dto.OrderFilter{})
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListByEvent(ctx, eventID, dto.SaleFilter{})
	if err != nil {
		return nil, err
	}
	productRows, err := s.productInv.FindAll(ctx, eventID)
	if err != nil {
		return nil, err
	}
	supplyRows, err := s.supplyInv.FindAll(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Cancelled orders never count toward product tallies.
	tallies := map[uuid.UUID]*productTally{}
	completedOrders, cancelledOrders := 0, 0
	for _, order := range orders {
		switch order.Status {
		case model.StatusCancelled:
			cancelledOrders++
			continue
		case model.StatusCompleted:
			completedOrders++
		}
		for _, item := range order.Items {
			t, ok := tallies[item.ProductID]
			if !ok {
				t = &productTally{qtySold: decimal.Zero, revenue: decimal.Zero}
				if item.Product != nil {
					t.name = item.Product.Name
				}
				tallies[item.ProductID] = t
			}
			qty := decimal.NewFromInt(int64(item.Qty))
			t.qtySold = t.qtySold.Add(qty)
			t.revenue = t.revenue.Add(item.UnitPrice.Mul(qty))
		}
	}

	// Every loaded product appears in the rankings, sold or not.
	salesEntries := make([]dto.ProductSalesEntry, 0, len(productRows))
	profitEntries := make([]dto.ProductProfitEntry, 0, len(productRows))
	stockEntries := make([]dto.ProductStockEntry, 0, len(productRows))
	totalInvestment := decimal.Zero

	for i := range productRows {
		row := &productRows[i]
		totalInvestment = totalInvestment.Add(row.InitialQty.Mul(row.Cost))

		name := productRowName(row)
		qtySold, revenue := decimal.Zero, decimal.Zero
		if t, ok := tallies[row.ProductID]; ok {
			qtySold, revenue = t.qtySold, t.revenue
		}

		salesEntries = append(salesEntries, dto.ProductSalesEntry{
			Product: name,
			QtySold: qtySold,
			Revenue: revenue,
		})

		// Cost uses the inventory cost at query time, not the order-time cost.
		cost := qtySold.Mul(row.Cost)
		profit := revenue.Sub(cost)
		margin := decimal.Zero
		if revenue.IsPositive() {
			margin = profit.Div(revenue).Mul(hundred).Round(2)
		}
		profitEntries = append(profitEntries, dto.ProductProfitEntry{
			Product:      name,
			Revenue:      revenue,
			Cost:         cost,
			Profit:       profit,
			ProfitMargin: margin,
		})

		wasted := decimal.Zero
		if row.InitialQty.IsPositive() {
			wasted = row.CurrentQty.Div(row.InitialQty).Mul(hundred).Round(2)
		}
		stockEntries = append(stockEntries, dto.ProductStockEntry{
			Product:          name,
			InitialQty:       row.InitialQty,
			CurrentQty:       row.CurrentQty,
			Sold:             qtySold,
			Remaining:        row.CurrentQty,
			WastedPercentage: wasted,
		})
	}

	for i := range supplyRows {
		totalInvestment = totalInvestment.Add(supplyRows[i].InitialQty.Mul(supplyRows[i].Cost))
	}

	totals := aggregateSales(sales)

	return &dto.EventStatsResponse{
		Event: *eventToResponse(event),
		Summary: dto.EventStatsSummary{
			TotalOrders:     len(orders),
			CompletedOrders: completedOrders,
			CancelledOrders: cancelledOrders,
			TotalRevenue:    totals.TotalRevenue,
			TotalRefunds:    totals.TotalRefunds,
			NetRevenue:      totals.NetRevenue,
			SalesByMethod:   totals.ByMethod,
			TotalInvestment: totalInvestment,
			TotalProducts:   len(productRows),
			TotalSupplies:   len(supplyRows),
		},
		Products: dto.EventStatsProducts{
			TopSelling:      topSales(salesEntries, true),
			LeastSelling:    topSales(salesEntries, false),
			TopProfitable:   topProfit(profitEntries, true),
			LeastProfitable: topProfit(profitEntries, false),
			TopRemaining:    topStock(stockEntries, true),
			LeastRemaining:  topStock(stockEntries, false),
			MostWasted:      mostWasted(stockEntries),
		},
	}, nil
}

func topSales(entries []dto.ProductSalesEntry, descending bool) []dto.ProductSalesEntry {
	out := make([]dto.ProductSalesEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].QtySold.GreaterThan(out[j].QtySold)
		}
		return out[i].QtySold.LessThan(out[j].QtySold)
	})
	return truncSales(out)
}

func topProfit(entries []dto.ProductProfitEntry, descending bool) []dto.ProductProfitEntry {
	out := make([]dto.ProductProfitEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Profit.GreaterThan(out[j].Profit)
		}
		return out[i].Profit.LessThan(out[j].Profit)
	})
	if len(out) > rankingSize {
		out = out[:rankingSize]
	}
	return out
}

func topStock(entries []dto.ProductStockEntry, descending bool) []dto.ProductStockEntry {
	out := make([]dto.ProductStockEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Remaining.GreaterThan(out[j].Remaining)
		}
		return out[i].Remaining.LessThan(out[j].Remaining)
	})
	if len(out) > rankingSize {
		out = out[:rankingSize]
	}
	return out
}

func mostWasted(entries []dto.ProductStockEntry) []dto.ProductStockEntry {
	out := make([]dto.ProductStockEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WastedPercentage.GreaterThan(out[j].WastedPercentage)
	})
	if len(out) > rankingSize {
		out = out[:rankingSize]
	}
	return out
}

func truncSales(entries []dto.ProductSalesEntry) []dto.ProductSalesEntry {
	if len(entries) > rankingSize {
		return entries[:rankingSize]
	}
	return entries
}
