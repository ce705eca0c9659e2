package service

import (
	"context"
	"strings"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
)

type SupplyService interface {
	Create(ctx context.Context, req dto.CreateSupplyRequest) (*dto.SupplyResponse, error)
	FindAll(ctx context.Context, p dto.Pagination) ([]dto.SupplyResponse, error)
	FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.SupplyResponse, error)
	Search(ctx context.Context, req dto.SearchRequest) ([]dto.SupplyResponse, error)
	FindOne(ctx context.Context, id uuid.UUID) (*dto.SupplyResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplyRequest) (*dto.SupplyResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error

	// GetProducts lists the products whose recipe uses the supply.
	GetProducts(ctx context.Context, supplyID uuid.UUID) ([]dto.ProductResponse, error)
}

type supplyService struct {
	repo        repository.SupplyRepository
	productRepo repository.ProductRepository
}

func NewSupplyService(repo repository.SupplyRepository, productRepo repository.ProductRepository) SupplyService {
	return &supplyService{repo: repo, productRepo: productRepo}
}

func (s *supplyService) Create(ctx context.Context, req dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	if req.Cost.IsNegative() {
		return nil, apierror.Validation("el costo no puede ser negativo")
	}
	name := normalizeName(req.Name)

	if existing, err := s.repo.FindByName(ctx, name); err == nil {
		if existing.IsActive {
			return nil, apierror.Conflict("ya existe un insumo con el nombre %q", name)
		}
		// Reactivate with the incoming unit and cost.
		existing.IsActive = true
		existing.Unit = req.Unit
		existing.Cost = req.Cost
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return supplyToResponse(existing), nil
	}

	supply := &model.Supply{
		Name:     name,
		Unit:     req.Unit,
		Cost:     req.Cost,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, supply); err != nil {
		return nil, err
	}
	return supplyToResponse(supply), nil
}

func (s *supplyService) FindAll(ctx context.Context, p dto.Pagination) ([]dto.SupplyResponse, error) {
	limit, offset := p.Normalize()
	supplies, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return suppliesToResponses(supplies), nil
}

func (s *supplyService) FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.SupplyResponse, error) {
	limit, offset := p.Normalize()
	supplies, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return suppliesToResponses(supplies), nil
}

func (s *supplyService) Search(ctx context.Context, req dto.SearchRequest) ([]dto.SupplyResponse, error) {
	limit, offset := req.Normalize()
	supplies, err := s.repo.Search(ctx, strings.TrimSpace(req.Term), limit, offset)
	if err != nil {
		return nil, err
	}
	return suppliesToResponses(supplies), nil
}

func (s *supplyService) FindOne(ctx context.Context, id uuid.UUID) (*dto.SupplyResponse, error) {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("insumo %s no encontrado", id)
	}
	return supplyToResponse(supply), nil
}

func (s *supplyService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("insumo %s no encontrado", id)
	}
	if req.Name != "" {
		name := normalizeName(req.Name)
		if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != supply.ID {
			return nil, apierror.Conflict("ya existe un insumo con el nombre %q", name)
		}
		supply.Name = name
	}
	if req.Unit != "" {
		supply.Unit = req.Unit
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, apierror.Validation("el costo no puede ser negativo")
		}
		supply.Cost = *req.Cost
	}
	if err := s.repo.Save(ctx, supply); err != nil {
		return nil, err
	}
	return supplyToResponse(supply), nil
}

func (s *supplyService) Remove(ctx context.Context, id uuid.UUID) error {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("insumo %s no encontrado", id)
	}
	supply.IsActive = false
	return s.repo.Save(ctx, supply)
}

func (s *supplyService) GetProducts(ctx context.Context, supplyID uuid.UUID) ([]dto.ProductResponse, error) {
	if _, err := s.repo.FindByID(ctx, supplyID); err != nil {
		return nil, apierror.NotFound("insumo %s no encontrado", supplyID)
	}
	usages, err := s.productRepo.GetUsages(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	products := make([]dto.ProductResponse, 0, len(usages))
	for _, ps := range usages {
		if ps.Product == nil {
			continue
		}
		products = append(products, *productToResponse(ps.Product))
	}
	return products, nil
}

func supplyToResponse(sup *model.Supply) *dto.SupplyResponse {
	return &dto.SupplyResponse{
		ID:       sup.ID.String(),
		Name:     sup.Name,
		Unit:     sup.Unit,
		Cost:     sup.Cost,
		IsActive: sup.IsActive,
	}
}

func suppliesToResponses(supplies []model.Supply) []dto.SupplyResponse {
	resp := make([]dto.SupplyResponse, len(supplies))
	for i := range supplies {
		resp[i] = *supplyToResponse(&supplies[i])
	}
	return resp
}
