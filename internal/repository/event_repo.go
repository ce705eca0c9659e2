package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository is the data access contract for events. Services depend on
// this interface, not on the concrete GORM implementation, enabling clean
// unit testing via stubs.
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindByName(ctx context.Context, name string) (*model.Event, error)
	List(ctx context.Context, limit, offset int) ([]model.Event, error)
	ListActive(ctx context.Context, limit, offset int) ([]model.Event, error)
	Save(ctx context.Context, e *model.Event) error

	// FindByIDForUpdateTx locks the event row for the duration of the
	// transaction. Order creation uses it to serialize per-event order
	// numbering.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Event, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type eventRepo struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) EventRepository { return &eventRepo{db: db} }

func (r *eventRepo) DB() *gorm.DB { return r.db }

func (r *eventRepo) Create(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *eventRepo) FindByName(ctx context.Context, name string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&e).Error
	return &e, err
}

func (r *eventRepo) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("is_active = true AND is_closed = false").
		Order("start_date DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Save(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *eventRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, "id = ?", id).Error
	return &e, err
}
