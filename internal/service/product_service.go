package service

import (
	"context"
	"strings"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	FindAll(ctx context.Context, p dto.Pagination) ([]dto.ProductResponse, error)
	FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.ProductResponse, error)
	Search(ctx context.Context, req dto.SearchRequest) ([]dto.ProductResponse, error)
	FindOne(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error

	AssignSupplies(ctx context.Context, productID uuid.UUID, req dto.AssignSuppliesRequest) ([]dto.RecipeLineResponse, error)
	GetSupplies(ctx context.Context, productID uuid.UUID) ([]dto.RecipeLineResponse, error)
	UpdateSupplyQuantity(ctx context.Context, productID, supplyID uuid.UUID, req dto.UpdateSupplyQuantityRequest) error
	RemoveSupply(ctx context.Context, productID, supplyID uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	supplyRepo repository.SupplyRepository
}

func NewProductService(repo repository.ProductRepository, supplyRepo repository.SupplyRepository) ProductService {
	return &productService{repo: repo, supplyRepo: supplyRepo}
}

// normalizeName folds catalog names to their canonical form: lowercase,
// surrounding whitespace stripped. Uniqueness checks always run against the
// normalized value.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Create reactivates a soft-deleted product when the normalized name matches
// one, instead of inserting a duplicate row.
func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := normalizeName(req.Name)

	if existing, err := s.repo.FindByName(ctx, name); err == nil {
		if existing.IsActive {
			return nil, apierror.Conflict("ya existe un producto con el nombre %q", name)
		}
		existing.IsActive = true
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return productToResponse(existing), nil
	}

	product := &model.Product{Name: name, IsActive: true}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) FindAll(ctx context.Context, p dto.Pagination) ([]dto.ProductResponse, error) {
	limit, offset := p.Normalize()
	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func (s *productService) FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.ProductResponse, error) {
	limit, offset := p.Normalize()
	products, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func (s *productService) Search(ctx context.Context, req dto.SearchRequest) ([]dto.ProductResponse, error) {
	limit, offset := req.Normalize()
	products, err := s.repo.Search(ctx, strings.TrimSpace(req.Term), limit, offset)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func (s *productService) FindOne(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto %s no encontrado", id)
	}
	return productToResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto %s no encontrado", id)
	}
	if req.Name != "" {
		name := normalizeName(req.Name)
		if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != product.ID {
			return nil, apierror.Conflict("ya existe un producto con el nombre %q", name)
		}
		product.Name = name
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) Remove(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("producto %s no encontrado", id)
	}
	product.IsActive = false
	return s.repo.Save(ctx, product)
}

// ─── Recipe ──────────────────────────────────────────────────────────────────

func (s *productService) AssignSupplies(ctx context.Context, productID uuid.UUID, req dto.AssignSuppliesRequest) ([]dto.RecipeLineResponse, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, apierror.NotFound("producto %s no encontrado", productID)
	}
	if !product.IsActive {
		return nil, apierror.InvalidState("el producto %q está inactivo", product.Name)
	}

	for _, item := range req.Supplies {
		supplyID, err := uuid.Parse(item.SupplyID)
		if err != nil {
			return nil, apierror.Validation("supply_id inválido: %s", item.SupplyID)
		}
		if !item.QtyPerUnit.IsPositive() {
			return nil, apierror.Validation("la cantidad por unidad debe ser mayor que cero")
		}

		supply, err := s.supplyRepo.FindByID(ctx, supplyID)
		if err != nil {
			return nil, apierror.NotFound("insumo %s no encontrado", supplyID)
		}
		if !supply.IsActive {
			return nil, apierror.InvalidState("el insumo %q está inactivo", supply.Name)
		}
		if _, err := s.repo.FindRecipeLine(ctx, productID, supplyID); err == nil {
			return nil, apierror.Conflict("el insumo %q ya pertenece a la receta de %q", supply.Name, product.Name)
		}

		line := &model.ProductSupply{
			ProductID:  productID,
			SupplyID:   supplyID,
			QtyPerUnit: item.QtyPerUnit,
		}
		if err := s.repo.CreateRecipeLine(ctx, line); err != nil {
			return nil, err
		}
	}

	if !product.HasRecipe {
		product.HasRecipe = true
		if err := s.repo.Save(ctx, product); err != nil {
			return nil, err
		}
	}
	return s.GetSupplies(ctx, productID)
}

func (s *productService) GetSupplies(ctx context.Context, productID uuid.UUID) ([]dto.RecipeLineResponse, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, apierror.NotFound("producto %s no encontrado", productID)
	}
	recipe, err := s.repo.GetRecipe(ctx, productID)
	if err != nil {
		return nil, err
	}
	lines := make([]dto.RecipeLineResponse, 0, len(recipe))
	for _, ps := range recipe {
		line := dto.RecipeLineResponse{
			SupplyID:   ps.SupplyID.String(),
			QtyPerUnit: ps.QtyPerUnit,
		}
		if ps.Supply != nil {
			line.SupplyName = ps.Supply.Name
			line.Unit = ps.Supply.Unit
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *productService) UpdateSupplyQuantity(ctx context.Context, productID, supplyID uuid.UUID, req dto.UpdateSupplyQuantityRequest) error {
	if !req.QtyPerUnit.IsPositive() {
		return apierror.Validation("la cantidad por unidad debe ser mayor que cero")
	}
	line, err := s.repo.FindRecipeLine(ctx, productID, supplyID)
	if err != nil {
		return apierror.NotFound("el insumo no pertenece a la receta del producto")
	}
	line.QtyPerUnit = req.QtyPerUnit
	return s.repo.SaveRecipeLine(ctx, line)
}

// RemoveSupply drops a recipe line; removing the last one clears the
// product's hasRecipe flag.
func (s *productService) RemoveSupply(ctx context.Context, productID, supplyID uuid.UUID) error {
	line, err := s.repo.FindRecipeLine(ctx, productID, supplyID)
	if err != nil {
		return apierror.NotFound("el insumo no pertenece a la receta del producto")
	}
	if err := s.repo.DeleteRecipeLine(ctx, line); err != nil {
		return err
	}

	count, err := s.repo.CountRecipeLines(ctx, productID)
	if err != nil {
		return err
	}
	if count == 0 {
		product, err := s.repo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		product.HasRecipe = false
		return s.repo.Save(ctx, product)
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		HasRecipe: p.HasRecipe,
		IsActive:  p.IsActive,
	}
}

func productsToResponses(products []model.Product) []dto.ProductResponse {
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = *productToResponse(&products[i])
	}
	return resp
}

// recipeCost sums qtyPerUnit × unit cost over a recipe, preferring the
// event-scoped supply cost when the event inventory has one.
func recipeCost(recipe []model.ProductSupply, eventCosts map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, ps := range recipe {
		cost := decimal.Zero
		if c, ok := eventCosts[ps.SupplyID]; ok {
			cost = c
		} else if ps.Supply != nil {
			cost = ps.Supply.Cost
		}
		total = total.Add(ps.QtyPerUnit.Mul(cost))
	}
	return total
}
