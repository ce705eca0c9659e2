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

type OrderService interface {
	Create(ctx context.Context, eventID, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID, filter dto.OrderFilter) ([]dto.OrderResponse, error)
	FindByUser(ctx context.Context, eventID, userID uuid.UUID) ([]dto.OrderResponse, error)
	FindOne(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	repo       repository.OrderRepository
	saleRepo   repository.SaleRepository
	eventRepo  repository.EventRepository
	productInv repository.ProductInventoryRepository
}

func NewOrderService(
	repo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	eventRepo repository.EventRepository,
	productInv repository.ProductInventoryRepository,
) OrderService {
	return &orderService{
		repo:       repo,
		saleRepo:   saleRepo,
		eventRepo:  eventRepo,
		productInv: productInv,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create registers an order and its sale atomically. The order starts PENDING
// and deducts no stock: the stock check here is advisory, the reservation
// happens at StartPreparation. The event row is locked FOR UPDATE so the
// per-event order number allocation is serialized.
func (s *orderService) Create(ctx context.Context, eventID, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", eventID)
	}
	// Only a closed event refuses orders; a deactivated one is merely hidden
	// from the active listings and keeps selling.
	if event.IsClosed {
		return nil, apierror.InvalidState("el evento %q está cerrado", event.Name)
	}

	// Resolve items and snapshot prices outside the transaction.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		qty       int
		unitPrice decimal.Decimal
	}

	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("product_id inválido: %s", item.ProductID)
		}
		row, err := s.productInv.FindOne(ctx, eventID, productID)
		if err != nil {
			return nil, apierror.NotFound("el producto %s no está cargado al evento", productID)
		}
		if !row.IsActive {
			return nil, apierror.InvalidState("el producto %q no está disponible en el evento", productRowName(row))
		}
		qty := decimal.NewFromInt(int64(item.Qty))
		if row.CurrentQty.LessThan(qty) {
			return nil, apierror.InsufficientStock(productRowName(row), row.CurrentQty)
		}

		resolved = append(resolved, resolvedItem{
			productID: productID,
			name:      productRowName(row),
			qty:       item.Qty,
			unitPrice: row.SalePrice,
		})
		total = total.Add(row.SalePrice.Mul(qty))
	}

	var order model.Order
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		lockedEvent, err := s.eventRepo.FindByIDForUpdateTx(tx, eventID)
		if err != nil {
			return apierror.NotFound("evento %s no encontrado", eventID)
		}
		if lockedEvent.IsClosed {
			return apierror.InvalidState("el evento %q está cerrado", lockedEvent.Name)
		}

		orderNumber, err := s.repo.NextOrderNumberTx(tx, eventID)
		if err != nil {
			return err
		}

		order = model.Order{
			EventID:      eventID,
			CreatedBy:    userID,
			OrderNumber:  orderNumber,
			Status:       model.StatusPending,
			TotalAmount:  total,
			Observations: req.Observations,
		}
		for _, r := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				ProductID: r.productID,
				Qty:       r.qty,
				UnitPrice: r.unitPrice,
				Status:    model.StatusPending,
			})
		}
		if err := s.repo.CreateTx(tx, &order); err != nil {
			return err
		}

		if _, err := s.saleRepo.FindByOrderTx(tx, order.ID); err == nil {
			return apierror.Conflict("la orden #%d ya tiene una venta registrada", orderNumber)
		}
		sale := model.Sale{
			OrderID: order.ID,
			Method:  req.PaymentMethod,
			Amount:  total,
			Status:  model.SaleCompleted,
		}
		return s.saleRepo.CreateTx(tx, &sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := orderToResponse(&order)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.name
	}
	return resp, nil
}

func (s *orderService) FindByEvent(ctx context.Context, eventID uuid.UUID, filter dto.OrderFilter) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByEvent(ctx, eventID, filter)
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

func (s *orderService) FindByUser(ctx context.Context, eventID, userID uuid.UUID) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

func (s *orderService) FindOne(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	return orderToResponse(order), nil
}

// Cancel is only legal while the order is PENDING; preparation has not started
// so there is no stock to restore. The sale flips to CANCELLED in the same
// transaction.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return apierror.NotFound("orden %s no encontrada", orderID)
	}
	if order.Status != model.StatusPending {
		return apierror.InvalidState("la orden #%d está %s y ya no puede cancelarse", order.OrderNumber, order.Status)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Conditional transition: if preparation started in the meantime the
		// update matches nothing and the refund never happens.
		ok, err := s.repo.TransitionStatusTx(tx, orderID, model.StatusPending, model.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InvalidState("la orden #%d ya no está pendiente y no puede cancelarse", order.OrderNumber)
		}
		if err := s.repo.UpdateItemStatusesTx(tx, orderID, model.StatusCancelled); err != nil {
			return err
		}

		sale, err := s.saleRepo.FindByOrderTx(tx, orderID)
		if err != nil {
			return apierror.NotFound("la orden #%d no tiene venta registrada", order.OrderNumber)
		}
		if sale.Status == model.SaleCancelled {
			return apierror.InvalidState("la venta de la orden #%d ya está cancelada", order.OrderNumber)
		}
		return s.saleRepo.UpdateStatusTx(tx, sale.ID, model.SaleCancelled)
	})
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: name,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			Status:      item.Status,
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID.String(),
		EventID:      o.EventID.String(),
		OrderNumber:  o.OrderNumber,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		Observations: o.Observations,
		CreatedBy:    o.CreatedBy.String(),
		Items:        items,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}

func ordersToResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		resp[i] = *orderToResponse(&orders[i])
	}
	return resp
}
