package service

import (
	"context"
	"time"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"
	"eventpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KitchenService drives order preparation. StartPreparation is the moment
// product stock is actually reserved; CompletePreparation consumes the recipe
// supplies.
type KitchenService interface {
	FindPending(ctx context.Context, eventID uuid.UUID) ([]dto.OrderResponse, error)
	FindByStatus(ctx context.Context, eventID uuid.UUID, status string) ([]dto.OrderResponse, error)
	GetOrderWithRecipes(ctx context.Context, orderID uuid.UUID) (*dto.KitchenOrderResponse, error)
	StartPreparation(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
	CompletePreparation(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type kitchenService struct {
	repo        repository.OrderRepository
	productInv  repository.ProductInventoryRepository
	supplyInv   repository.SupplyInventoryRepository
	productRepo repository.ProductRepository
	dispatcher  *worker.Dispatcher
}

func NewKitchenService(
	repo repository.OrderRepository,
	productInv repository.ProductInventoryRepository,
	supplyInv repository.SupplyInventoryRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) KitchenService {
	return &kitchenService{
		repo:        repo,
		productInv:  productInv,
		supplyInv:   supplyInv,
		productRepo: productRepo,
		dispatcher:  dispatcher,
	}
}

func (s *kitchenService) FindPending(ctx context.Context, eventID uuid.UUID) ([]dto.OrderResponse, error) {
	return s.FindByStatus(ctx, eventID, model.StatusPending)
}

func (s *kitchenService) FindByStatus(ctx context.Context, eventID uuid.UUID, status string) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByStatus(ctx, eventID, status)
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

// GetOrderWithRecipes expands every item into its recipe lines with the total
// supply quantity the kitchen needs for the ordered amount.
func (s *kitchenService) GetOrderWithRecipes(ctx context.Context, orderID uuid.UUID) (*dto.KitchenOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}

	items := make([]dto.KitchenItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		ki := dto.KitchenItemResponse{
			Qty:    item.Qty,
			Status: item.Status,
		}
		if item.Product != nil {
			ki.ProductName = item.Product.Name
		}
		recipe, err := s.productRepo.GetRecipe(ctx, item.ProductID)
		if err == nil {
			qty := decimal.NewFromInt(int64(item.Qty))
			for _, line := range recipe {
				kl := dto.KitchenRecipeLine{
					QtyPerUnit:  line.QtyPerUnit,
					TotalNeeded: line.QtyPerUnit.Mul(qty),
				}
				if line.Supply != nil {
					kl.SupplyName = line.Supply.Name
					kl.Unit = line.Supply.Unit
				}
				ki.Recipe = append(ki.Recipe, kl)
			}
		}
		items = append(items, ki)
	}

	return &dto.KitchenOrderResponse{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Items:       items,
	}, nil
}

// StartPreparation moves a PENDING order to IN_PROGRESS and deducts product
// stock. Each deduction is a conditional single-statement update: when two
// orders race over the same inventory row, the loser's update matches zero
// rows and the whole transaction rolls back with InsufficientStock.
func (s *kitchenService) StartPreparation(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	if order.Status != model.StatusPending {
		return nil, apierror.InvalidState("la orden #%d está %s, solo una orden pendiente puede prepararse", order.OrderNumber, order.Status)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The conditional transition goes first: if another transaction
		// already took the order out of PENDING, no stock is touched here.
		ok, err := s.repo.TransitionStatusTx(tx, orderID, model.StatusPending, model.StatusInProgress)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InvalidState("la orden #%d ya no está pendiente", order.OrderNumber)
		}
		for _, item := range order.Items {
			qty := decimal.NewFromInt(int64(item.Qty))
			ok, err := s.productInv.DeductStockTx(tx, order.EventID, item.ProductID, qty)
			if err != nil {
				return err
			}
			if !ok {
				row, ferr := s.productInv.FindOneTx(tx, order.EventID, item.ProductID)
				if ferr != nil {
					return apierror.NotFound("el producto %s no está cargado al evento", item.ProductID)
				}
				return apierror.InsufficientStock(productRowName(row), row.CurrentQty)
			}
		}
		return s.repo.UpdateItemStatusesTx(tx, orderID, model.StatusInProgress)
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, item := range order.Items {
		s.alertIfProductLow(ctx, order.EventID, item.ProductID)
	}
	return s.reloadOrder(ctx, orderID)
}

// CompletePreparation moves an IN_PROGRESS order to COMPLETED and deducts
// qty × qtyPerUnit of every recipe supply. Whether a product consumes supplies
// follows the inventory row's hasRecipe snapshot, not the current catalog
// state.
func (s *kitchenService) CompletePreparation(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	if order.Status != model.StatusInProgress {
		return nil, apierror.InvalidState("la orden #%d está %s, solo una orden en preparación puede completarse", order.OrderNumber, order.Status)
	}

	var touchedSupplies []uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.TransitionStatusTx(tx, orderID, model.StatusInProgress, model.StatusCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InvalidState("la orden #%d ya no está en preparación", order.OrderNumber)
		}
		for _, item := range order.Items {
			invRow, err := s.productInv.FindOneTx(tx, order.EventID, item.ProductID)
			if err != nil || !invRow.HasRecipe {
				continue
			}
			recipe, err := s.productRepo.GetRecipe(ctx, item.ProductID)
			if err != nil {
				return err
			}
			qty := decimal.NewFromInt(int64(item.Qty))
			for _, line := range recipe {
				needed := line.QtyPerUnit.Mul(qty)
				ok, err := s.supplyInv.DeductStockTx(tx, order.EventID, line.SupplyID, needed)
				if err != nil {
					return err
				}
				if !ok {
					row, ferr := s.supplyInv.FindOneTx(tx, order.EventID, line.SupplyID)
					if ferr != nil {
						return apierror.NotFound("el insumo %s no está cargado al evento", line.SupplyID)
					}
					return apierror.InsufficientStock(supplyRowName(row), row.CurrentQty)
				}
				touchedSupplies = append(touchedSupplies, line.SupplyID)
			}
		}
		return s.repo.UpdateItemStatusesTx(tx, orderID, model.StatusCompleted)
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, supplyID := range touchedSupplies {
		s.alertIfSupplyLow(ctx, order.EventID, supplyID)
	}
	return s.reloadOrder(ctx, orderID)
}

func (s *kitchenService) reloadOrder(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *kitchenService) alertIfProductLow(ctx context.Context, eventID, productID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.productInv.FindOne(ctx, eventID, productID)
	if err != nil || row.CurrentQty.GreaterThan(row.MinQty) {
		return
	}
	_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
		EventID:    eventID.String(),
		ItemType:   "product",
		ItemName:   productRowName(row),
		CurrentQty: row.CurrentQty.String(),
		MinQty:     row.MinQty.String(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *kitchenService) alertIfSupplyLow(ctx context.Context, eventID, supplyID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.supplyInv.FindOne(ctx, eventID, supplyID)
	if err != nil || row.CurrentQty.GreaterThan(row.MinQty) {
		return
	}
	_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
		EventID:    eventID.String(),
		ItemType:   "supply",
		ItemName:   supplyRowName(row),
		CurrentQty: row.CurrentQty.String(),
		MinQty:     row.MinQty.String(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
