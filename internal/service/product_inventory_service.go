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

type ProductInventoryService interface {
	LoadBatch(ctx context.Context, eventID uuid.UUID, req dto.LoadProductInventoryRequest) ([]dto.ProductInventoryResponse, error)
	FindAll(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error)
	FindAvailable(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error)
	FindLowStock(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error)
	FindOne(ctx context.Context, eventID, productID uuid.UUID) (*dto.ProductInventoryResponse, error)
	Update(ctx context.Context, eventID, productID uuid.UUID, req dto.UpdateProductInventoryRequest) (*dto.ProductInventoryResponse, error)
	DecreaseStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error
	IncreaseStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error
	Remove(ctx context.Context, eventID, productID uuid.UUID) error
}

type productInventoryService struct {
	repo        repository.ProductInventoryRepository
	supplyInv   repository.SupplyInventoryRepository
	eventRepo   repository.EventRepository
	productRepo repository.ProductRepository
	dispatcher  *worker.Dispatcher
}

func NewProductInventoryService(
	repo repository.ProductInventoryRepository,
	supplyInv repository.SupplyInventoryRepository,
	eventRepo repository.EventRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) ProductInventoryService {
	return &productInventoryService{
		repo:        repo,
		supplyInv:   supplyInv,
		eventRepo:   eventRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
	}
}

var hundred = decimal.NewFromInt(100)

// profitMargin returns (salePrice − cost) / cost × 100 rounded to two
// decimals. A zero-cost row with a positive sale price reports 100; anything
// else with zero cost reports 0.
func profitMargin(cost, salePrice decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		if salePrice.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return salePrice.Sub(cost).Div(cost).Mul(hundred).Round(2)
}

func (s *productInventoryService) LoadBatch(ctx context.Context, eventID uuid.UUID, req dto.LoadProductInventoryRequest) ([]dto.ProductInventoryResponse, error) {
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

	// Event-scoped supply costs take priority over catalog costs when a
	// recipe-bearing product's cost has to be derived.
	eventCosts := map[uuid.UUID]decimal.Decimal{}
	if supplyRows, err := s.supplyInv.FindAll(ctx, eventID); err == nil {
		for _, row := range supplyRows {
			eventCosts[row.SupplyID] = row.Cost
		}
	}

	rows := make([]model.EventProductInventory, 0, len(req.Products))
	seen := map[uuid.UUID]bool{}
	for _, item := range req.Products {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("product_id inválido: %s", item.ProductID)
		}
		if seen[productID] {
			return nil, apierror.Conflict("producto %s repetido en la carga", productID)
		}
		seen[productID] = true

		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, apierror.NotFound("producto %s no encontrado", productID)
		}
		if !product.IsActive {
			return nil, apierror.InvalidState("el producto %q está inactivo", product.Name)
		}
		if _, err := s.repo.FindOne(ctx, eventID, productID); err == nil {
			return nil, apierror.Conflict("el producto %q ya fue cargado al evento", product.Name)
		}

		if !item.InitialQty.IsPositive() {
			return nil, apierror.Validation("la cantidad inicial de %q debe ser mayor que cero", product.Name)
		}
		if item.MinQty.IsNegative() {
			return nil, apierror.Validation("la cantidad mínima de %q no puede ser negativa", product.Name)
		}
		if item.MinQty.GreaterThan(item.InitialQty) {
			return nil, apierror.Validation("la cantidad mínima de %q supera la cantidad inicial", product.Name)
		}
		if item.SalePrice.IsNegative() {
			return nil, apierror.Validation("el precio de venta de %q no puede ser negativo", product.Name)
		}

		cost, err := s.resolveCost(ctx, product, item.Cost, eventCosts)
		if err != nil {
			return nil, err
		}

		rows = append(rows, model.EventProductInventory{
			EventID:      eventID,
			ProductID:    productID,
			InitialQty:   item.InitialQty,
			CurrentQty:   item.InitialQty,
			MinQty:       item.MinQty,
			Cost:         cost,
			SalePrice:    item.SalePrice,
			ProfitMargin: profitMargin(cost, item.SalePrice),
			HasRecipe:    product.HasRecipe,
			IsActive:     true,
			Product:      product,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateBatchTx(tx, rows)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := make([]dto.ProductInventoryResponse, len(rows))
	for i := range rows {
		resp[i] = *productInventoryToResponse(&rows[i])
	}
	return resp, nil
}

// resolveCost applies the load-time cost rules: a recipe-bearing product takes
// the caller's positive override, otherwise the recipe-derived sum; a plain
// product requires an explicit non-negative cost.
func (s *productInventoryService) resolveCost(ctx context.Context, product *model.Product, override *decimal.Decimal, eventCosts map[uuid.UUID]decimal.Decimal) (decimal.Decimal, error) {
	if product.HasRecipe {
		if override != nil && override.IsPositive() {
			return *override, nil
		}
		recipe, err := s.productRepo.GetRecipe(ctx, product.ID)
		if err != nil {
			return decimal.Zero, err
		}
		return recipeCost(recipe, eventCosts), nil
	}

	if override == nil {
		return decimal.Zero, apierror.Validation("el producto %q no tiene receta: el costo es obligatorio", product.Name)
	}
	if override.IsNegative() {
		return decimal.Zero, apierror.Validation("el costo de %q no puede ser negativo", product.Name)
	}
	return *override, nil
}

func (s *productInventoryService) FindAll(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error) {
	rows, err := s.repo.FindAll(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return productInventoriesToResponses(rows), nil
}

func (s *productInventoryService) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error) {
	rows, err := s.repo.FindAvailable(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return productInventoriesToResponses(rows), nil
}

func (s *productInventoryService) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]dto.ProductInventoryResponse, error) {
	rows, err := s.repo.FindLowStock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return productInventoriesToResponses(rows), nil
}

func (s *productInventoryService) FindOne(ctx context.Context, eventID, productID uuid.UUID) (*dto.ProductInventoryResponse, error) {
	row, err := s.repo.FindOne(ctx, eventID, productID)
	if err != nil {
		return nil, apierror.NotFound("el producto no está cargado al evento")
	}
	return productInventoryToResponse(row), nil
}

func (s *productInventoryService) Update(ctx context.Context, eventID, productID uuid.UUID, req dto.UpdateProductInventoryRequest) (*dto.ProductInventoryResponse, error) {
	row, err := s.repo.FindOne(ctx, eventID, productID)
	if err != nil {
		return nil, apierror.NotFound("el producto no está cargado al evento")
	}
	if row.Event != nil && row.Event.IsClosed {
		return nil, apierror.InvalidState("el evento %q está cerrado", row.Event.Name)
	}

	if req.Cost != nil && row.HasRecipe {
		return nil, apierror.InvalidState("el costo de un producto con receta se deriva de sus insumos y no puede editarse")
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
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, apierror.Validation("el precio de venta no puede ser negativo")
		}
		row.SalePrice = *req.SalePrice
	}
	if req.Cost != nil || req.SalePrice != nil {
		row.ProfitMargin = profitMargin(row.Cost, row.SalePrice)
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}
	return productInventoryToResponse(row), nil
}

func (s *productInventoryService) DecreaseStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apierror.Validation("la cantidad debe ser mayor que cero")
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.DeductStockTx(tx, eventID, productID, qty)
		if err != nil {
			return err
		}
		if !ok {
			row, ferr := s.repo.FindOneTx(tx, eventID, productID)
			if ferr != nil {
				return apierror.NotFound("el producto no está cargado al evento")
			}
			return apierror.InsufficientStock(productRowName(row), row.CurrentQty)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	s.alertIfLow(ctx, eventID, productID)
	return nil
}

func (s *productInventoryService) IncreaseStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apierror.Validation("la cantidad debe ser mayor que cero")
	}
	if _, err := s.repo.FindOne(ctx, eventID, productID); err != nil {
		return apierror.NotFound("el producto no está cargado al evento")
	}
	return s.repo.AddStock(ctx, eventID, productID, qty)
}

func (s *productInventoryService) Remove(ctx context.Context, eventID, productID uuid.UUID) error {
	row, err := s.repo.FindOne(ctx, eventID, productID)
	if err != nil {
		return apierror.NotFound("el producto no está cargado al evento")
	}
	if row.Event != nil && row.Event.IsClosed {
		return apierror.InvalidState("el evento %q está cerrado", row.Event.Name)
	}
	if !row.IsActive {
		return apierror.InvalidState("el producto ya fue retirado del inventario del evento")
	}
	row.IsActive = false
	return s.repo.Save(ctx, row)
}

// alertIfLow enqueues a low-stock job when the row sits at or below its
// minimum. Best effort: enqueue failures are swallowed.
func (s *productInventoryService) alertIfLow(ctx context.Context, eventID, productID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.repo.FindOne(ctx, eventID, productID)
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

func productRowName(row *model.EventProductInventory) string {
	if row.Product != nil {
		return row.Product.Name
	}
	return row.ProductID.String()
}

func productInventoryToResponse(row *model.EventProductInventory) *dto.ProductInventoryResponse {
	resp := &dto.ProductInventoryResponse{
		EventID:      row.EventID.String(),
		ProductID:    row.ProductID.String(),
		InitialQty:   row.InitialQty,
		CurrentQty:   row.CurrentQty,
		MinQty:       row.MinQty,
		Cost:         row.Cost,
		SalePrice:    row.SalePrice,
		ProfitMargin: row.ProfitMargin,
		HasRecipe:    row.HasRecipe,
		IsActive:     row.IsActive,
	}
	if row.Product != nil {
		resp.ProductName = row.Product.Name
	}
	return resp
}

func productInventoriesToResponses(rows []model.EventProductInventory) []dto.ProductInventoryResponse {
	resp := make([]dto.ProductInventoryResponse, len(rows))
	for i := range rows {
		resp[i] = *productInventoryToResponse(&rows[i])
	}
	return resp
}
