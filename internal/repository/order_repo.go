package repository

import (
	"context"

	"eventpos/internal/dto"
	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)

	// NextOrderNumberTx computes max(order_number)+1 for the event. Callers
	// must hold the event row lock in the same transaction; the unique
	// (event_id, order_number) index backs the allocation as a last line of
	// defense.
	NextOrderNumberTx(tx *gorm.DB, eventID uuid.UUID) (int, error)

	ListByEvent(ctx context.Context, eventID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error)
	ListByUser(ctx context.Context, eventID, userID uuid.UUID) ([]model.Order, error)
	// ListByStatus returns kitchen-ordered (oldest first) orders in one state.
	ListByStatus(ctx context.Context, eventID uuid.UUID, status string) ([]model.Order, error)

	// TransitionStatusTx flips the order from one status to another in a
	// single conditional UPDATE. It reports false when the row was no longer
	// in the expected status, so concurrent transitions cannot both win.
	TransitionStatusTx(tx *gorm.DB, orderID uuid.UUID, from, to string) (bool, error)
	UpdateItemStatusesTx(tx *gorm.DB, orderID uuid.UUID, status string) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Preload("Items.Product").Preload("Event").Preload("User").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) NextOrderNumberTx(tx *gorm.DB, eventID uuid.UUID) (int, error) {
	var next int
	err := tx.Raw(
		"SELECT COALESCE(MAX(order_number), 0) + 1 FROM orders WHERE event_id = ?",
		eventID,
	).Scan(&next).Error
	return next, err
}

func (r *orderRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("User").
		Where("event_id = ?", eventID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.OrderNumber > 0 {
		q = q.Where("order_number = ?", filter.OrderNumber)
	}

	var orders []model.Order
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListByUser(ctx context.Context, eventID, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("event_id = ? AND created_by = ?", eventID, userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListByStatus(ctx context.Context, eventID uuid.UUID, status string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("User").
		Where("event_id = ? AND status = ?", eventID, status).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) TransitionStatusTx(tx *gorm.DB, orderID uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) UpdateItemStatusesTx(tx *gorm.DB, orderID uuid.UUID, status string) error {
	return tx.Model(&model.OrderItem{}).Where("order_id = ?", orderID).
		Update("status", status).Error
}
