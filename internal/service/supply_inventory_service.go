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

type SupplyInventoryService interface {
	LoadBatch(ctx context.Context, eventID uuid.UUID, req dto.LoadSupplyInventoryRequest) ([]dto.SupplyInventoryResponse, error)
	FindAll(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error)
	FindAvailable(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error)
	FindLowStock(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error)
	FindOne(ctx context.Context, eventID, supplyID uuid.UUID) (*dto.SupplyInventoryResponse, error)
	Update(ctx context.Context, eventID, supplyID uuid.UUID, req dto.UpdateSupplyInventoryRequest) (*dto.SupplyInventoryResponse, error)
	DecreaseStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error
	IncreaseStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error
	Remove(ctx context.Context, eventID, supplyID uuid.UUID) error
}

type supplyInventoryService struct {
	repo       repository.SupplyInventoryRepository
	eventRepo  repository.EventRepository
	supplyRepo repository.SupplyRepository
	dispatcher *worker.Dispatcher
}

func NewSupplyInventoryService(
	repo repository.SupplyInventoryRepository,
	eventRepo repository.EventRepository,
	supplyRepo repository.SupplyRepository,
	dispatcher *worker.Dispatcher,
) SupplyInventoryService {
	return &supplyInventoryService{
		repo:       repo,
		eventRepo:  eventRepo,
		supplyRepo: supplyRepo,
		dispatcher: dispatcher,
	}
}

func (s *supplyInventoryService) LoadBatch(ctx context.Context, eventID uuid.UUID, req dto.LoadSupplyInventoryRequest) ([]dto.SupplyInventoryResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", eventID)
	}
	if event.IsClosed {
		return nil, apierror.InvalidState("el evento %q está cerrado", event.Name)
	}
	if !event.IsActive {
		return nil, apierror.InvalidState("el evento %q está inactivo", event.Name)
	}

	rows := make([]model.EventSupplyInventory, 0, len(req.Supplies))
	seen := map[uuid.UUID]bool{}
	for _, item := range req.Supplies {
		supplyID, err := uuid.Parse(item.SupplyID)
		if err != nil {
			return nil, apierror.Validation("supply_id inválido: %s", item.SupplyID)
		}
		if seen[supplyID] {
			return nil, apierror.Conflict("insumo %s repetido en la carga", supplyID)
		}
		seen[supplyID] = true

		supply, err := s.supplyRepo.FindByID(ctx, supplyID)
		if err != nil {
			return nil, apierror.NotFound("insumo %s no encontrado", supplyID)
		}
		if !supply.IsActive {
			return nil, apierror.InvalidState("el insumo %q está inactivo", supply.Name)
		}
		if _, err := s.repo.FindOne(ctx, eventID, supplyID); err == nil {
			return nil, apierror.Conflict("el insumo %q ya fue cargado al evento", supply.Name)
		}

		if !item.InitialQty.IsPositive() {
			return nil, apierror.Validation("la cantidad inicial de %q debe ser mayor que cero", supply.Name)
		}
		if item.MinQty.IsNegative() {
			return nil, apierror.Validation("la cantidad mínima de %q no puede ser negativa", supply.Name)
		}
		if item.MinQty.GreaterThan(item.InitialQty) {
			return nil, apierror.Validation("la cantidad mínima de %q supera la cantidad inicial", supply.Name)
		}
		if item.Cost.IsNegative() {
			return nil, apierror.Validation("el costo de %q no puede ser negativo", supply.Name)
		}

		// Zero cost falls back to the catalog cost.
		cost := item.Cost
		if cost.IsZero() {
			cost = supply.Cost
		}

		rows = append(rows, model.EventSupplyInventory{
			EventID:    eventID,
			SupplyID:   supplyID,
			InitialQty: item.InitialQty,
			CurrentQty: item.InitialQty,
			MinQty:     item.MinQty,
			Cost:       cost,
			IsActive:   true,
			Supply:     supply,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateBatchTx(tx, rows)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := make([]dto.SupplyInventoryResponse, len(rows))
	for i := range rows {
		resp[i] = *supplyInventoryToResponse(&rows[i])
	}
	return resp, nil
}

func (s *supplyInventoryService) FindAll(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error) {
	rows, err := s.repo.FindAll(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return supplyInventoriesToResponses(rows), nil
}

func (s *supplyInventoryService) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error) {
	rows, err := s.repo.FindAvailable(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return supplyInventoriesToResponses(rows), nil
}

func (s *supplyInventoryService) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]dto.SupplyInventoryResponse, error) {
	rows, err := s.repo.FindLowStock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return supplyInventoriesToResponses(rows), nil
}

func (s *supplyInventoryService) FindOne(ctx context.Context, eventID, supplyID uuid.UUID) (*dto.SupplyInventoryResponse, error) {
	row, err := s.repo.FindOne(ctx, eventID, supplyID)
	if err != nil {
		return nil, apierror.NotFound("el insumo no está cargado al evento")
	}
	return supplyInventoryToResponse(row), nil
}

func (s *supplyInventoryService) Update(ctx context.Context, eventID, supplyID uuid.UUID, req dto.UpdateSupplyInventoryRequest) (*dto.SupplyInventoryResponse, error) {
	row, err := s.repo.FindOne(ctx, eventID, supplyID)
	if err != nil {
		return nil, apierror.NotFound("el insumo no está cargado al evento")
	}
	if row.Event != nil && row.Event.IsClosed {
		return nil, apierror.InvalidState("el evento %q está cerrado", row.Event.Name)
	}

	if req.InitialQty != nil {
		if !req.InitialQty.IsPositive() {
			return nil, apierror.Validation("la cantidad inicial debe ser mayor que cero")
		}
		row.InitialQty = *req.InitialQty
	}
	if req.MinQty != nil {
		if req.MinQty.IsNegative() {
			return nil, apierror.Validation("la cantidad mínima no puede ser negativa")
		}
		row.MinQty = *req.MinQty
	}
	if row.MinQty.GreaterThan(row.InitialQty) {
		return nil, apierror.Validation("la cantidad mínima supera la cantidad inicial")
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, apierror.Validation("el costo no puede ser negativo")
		}
		row.Cost = *req.Cost
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}
	return supplyInventoryToResponse(row), nil
}

func (s *supplyInventoryService) DecreaseStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apierror.Validation("la cantidad debe ser mayor que cero")
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.DeductStockTx(tx, eventID, supplyID, qty)
		if err != nil {
			return err
		}
		if !ok {
			row, ferr := s.repo.FindOneTx(tx, eventID, supplyID)
			if ferr != nil {
				return apierror.NotFound("el insumo no está cargado al evento")
			}
			return apierror.InsufficientStock(supplyRowName(row), row.CurrentQty)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	s.alertIfLow(ctx, eventID, supplyID)
	return nil
}

func (s *supplyInventoryService) IncreaseStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apierror.Validation("la cantidad debe ser mayor que cero")
	}
	if _, err := s.repo.FindOne(ctx, eventID, supplyID); err != nil {
		return apierror.NotFound("el insumo no está cargado al evento")
	}
	return s.repo.AddStock(ctx, eventID, supplyID, qty)
}

func (s *supplyInventoryService) Remove(ctx context.Context, eventID, supplyID uuid.UUID) error {
	row, err := s.repo.FindOne(ctx, eventID, supplyID)
	if err != nil {
		return apierror.NotFound("el insumo no está cargado al evento")
	}
	if row.Event != nil && row.Event.IsClosed {
		return apierror.InvalidState("el evento %q está cerrado", row.Event.Name)
	}
	if !row.IsActive {
		return apierror.InvalidState("el insumo ya fue retirado del inventario del evento")
	}
	row.IsActive = false
	return s.repo.Save(ctx, row)
}

func (s *supplyInventoryService) alertIfLow(ctx context.Context, eventID, supplyID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.repo.FindOne(ctx, eventID, supplyID)
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

func supplyRowName(row *model.EventSupplyInventory) string {
	if row.Supply != nil {
		return row.Supply.Name
	}
	return row.SupplyID.String()
}

func supplyInventoryToResponse(row *model.EventSupplyInventory) *dto.SupplyInventoryResponse {
	resp := &dto.SupplyInventoryResponse{
		EventID:    row.EventID.String(),
		SupplyID:   row.SupplyID.String(),
		InitialQty: row.InitialQty,
		CurrentQty: row.CurrentQty,
		MinQty:     row.MinQty,
		Cost:       row.Cost,
		IsActive:   row.IsActive,
	}
	if row.Supply != nil {
		resp.SupplyName = row.Supply.Name
		resp.Unit = row.Supply.Unit
	}
	return resp
}

func supplyInventoriesToResponses(rows []model.EventSupplyInventory) []dto.SupplyInventoryResponse {
	resp := make([]dto.SupplyInventoryResponse, len(rows))
	for i := range rows {
		resp[i] = *supplyInventoryToResponse(&rows[i])
	}
	return resp
}
