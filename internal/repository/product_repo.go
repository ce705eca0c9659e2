package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindByName matches against the normalized name, including inactive
	// records — callers use it for the reactivate-on-recreate path.
	FindByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]model.Product, error)
	Search(ctx context.Context, term string, limit, offset int) ([]model.Product, error)
	Save(ctx context.Context, p *model.Product) error

	// Recipe
	CreateRecipeLine(ctx context.Context, ps *model.ProductSupply) error
	FindRecipeLine(ctx context.Context, productID, supplyID uuid.UUID) (*model.ProductSupply, error)
	GetRecipe(ctx context.Context, productID uuid.UUID) ([]model.ProductSupply, error)
	SaveRecipeLine(ctx context.Context, ps *model.ProductSupply) error
	DeleteRecipeLine(ctx context.Context, ps *model.ProductSupply) error
	CountRecipeLines(ctx context.Context, productID uuid.UUID) (int64, error)
	GetUsages(ctx context.Context, supplyID uuid.UUID) ([]model.ProductSupply, error)

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Search(ctx context.Context, term string, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+term+"%").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) CreateRecipeLine(ctx context.Context, ps *model.ProductSupply) error {
	return r.db.WithContext(ctx).Create(ps).Error
}

func (r *productRepo) FindRecipeLine(ctx context.Context, productID, supplyID uuid.UUID) (*model.ProductSupply, error) {
	var ps model.ProductSupply
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supply_id = ?", productID, supplyID).
		First(&ps).Error
	return &ps, err
}

func (r *productRepo) GetRecipe(ctx context.Context, productID uuid.UUID) ([]model.ProductSupply, error) {
	var recipe []model.ProductSupply
	err := r.db.WithContext(ctx).
		Preload("Supply").
		Where("product_id = ?", productID).
		Find(&recipe).Error
	return recipe, err
}

func (r *productRepo) SaveRecipeLine(ctx context.Context, ps *model.ProductSupply) error {
	return r.db.WithContext(ctx).Save(ps).Error
}

func (r *productRepo) DeleteRecipeLine(ctx context.Context, ps *model.ProductSupply) error {
	return r.db.WithContext(ctx).Delete(ps).Error
}

func (r *productRepo) CountRecipeLines(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductSupply{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *productRepo) GetUsages(ctx context.Context, supplyID uuid.UUID) ([]model.ProductSupply, error) {
	var usages []model.ProductSupply
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("supply_id = ?", supplyID).
		Find(&usages).Error
	return usages, err
}
