package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplyRepository interface {
	Create(ctx context.Context, s *model.Supply) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supply, error)
	FindByName(ctx context.Context, name string) (*model.Supply, error)
	List(ctx context.Context, limit, offset int) ([]model.Supply, error)
	ListActive(ctx context.Context, limit, offset int) ([]model.Supply, error)
	Search(ctx context.Context, term string, limit, offset int) ([]model.Supply, error)
	Save(ctx context.Context, s *model.Supply) error
}

type supplyRepo struct{ db *gorm.DB }

func NewSupplyRepository(db *gorm.DB) SupplyRepository { return &supplyRepo{db: db} }

func (r *supplyRepo) Create(ctx context.Context, s *model.Supply) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supply, error) {
	var s model.Supply
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *supplyRepo) FindByName(ctx context.Context, name string) (*model.Supply, error) {
	var s model.Supply
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error
	return &s, err
}

func (r *supplyRepo) List(ctx context.Context, limit, offset int) ([]model.Supply, error) {
	var supplies []model.Supply
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&supplies).Error
	return supplies, err
}

func (r *supplyRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Supply, error) {
	var supplies []model.Supply
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&supplies).Error
	return supplies, err
}

func (r *supplyRepo) Search(ctx context.Context, term string, limit, offset int) ([]model.Supply, error) {
	var supplies []model.Supply
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+term+"%").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&supplies).Error
	return supplies, err
}

func (r *supplyRepo) Save(ctx context.Context, s *model.Supply) error {
	return r.db.WithContext(ctx).Save(s).Error
}
