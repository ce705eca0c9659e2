package repository

import (
	"context"

	"eventpos/internal/dto"
	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts a sale inside an order transaction. The unique index
	// on order_id backstops the one-sale-per-order invariant under races.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Sale, error)
	FindByOrderTx(tx *gorm.DB, orderID uuid.UUID) (*model.Sale, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, saleID uuid.UUID, status string) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Order.Items.Product").Preload("Order.User").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Sale, error) {
	return r.FindByOrderTx(r.db.WithContext(ctx), orderID)
}

func (r *saleRepo) FindByOrderTx(tx *gorm.DB, orderID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Where("order_id = ?", orderID).First(&s).Error
	return &s, err
}

func (r *saleRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = sales.order_id").
		Where("orders.event_id = ?", eventID)

	if filter.Method != "" {
		q = q.Where("sales.method = ?", filter.Method)
	}
	if filter.Status != "" {
		q = q.Where("sales.status = ?", filter.Status)
	}

	var sales []model.Sale
	err := q.Order("sales.created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, saleID uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", saleID).
		Update("status", status).Error
}
