package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplyInventoryRepository manages the per-event supply stock rows. Deduction
// follows the same conditional-update discipline as the product ledger.
type SupplyInventoryRepository interface {
	CreateBatchTx(tx *gorm.DB, rows []model.EventSupplyInventory) error
	FindOne(ctx context.Context, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error)
	FindOneTx(tx *gorm.DB, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error)
	FindAll(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error)
	FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error)
	FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error)
	Save(ctx context.Context, inv *model.EventSupplyInventory) error

	DeductStockTx(tx *gorm.DB, eventID, supplyID uuid.UUID, qty decimal.Decimal) (bool, error)
	AddStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error

	DB() *gorm.DB
}

type supplyInventoryRepo struct{ db *gorm.DB }

func NewSupplyInventoryRepository(db *gorm.DB) SupplyInventoryRepository {
	return &supplyInventoryRepo{db: db}
}

func (r *supplyInventoryRepo) DB() *gorm.DB { return r.db }

func (r *supplyInventoryRepo) CreateBatchTx(tx *gorm.DB, rows []model.EventSupplyInventory) error {
	return tx.Create(&rows).Error
}

func (r *supplyInventoryRepo) FindOne(ctx context.Context, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error) {
	return r.FindOneTx(r.db.WithContext(ctx), eventID, supplyID)
}

func (r *supplyInventoryRepo) FindOneTx(tx *gorm.DB, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error) {
	var inv model.EventSupplyInventory
	err := tx.Preload("Supply").Preload("Event").
		Where("event_id = ? AND supply_id = ?", eventID, supplyID).
		First(&inv).Error
	return &inv, err
}

func (r *supplyInventoryRepo) FindAll(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	var rows []model.EventSupplyInventory
	err := r.db.WithContext(ctx).Preload("Supply").
		Where("event_id = ? AND is_active = true", eventID).
		Find(&rows).Error
	return rows, err
}

func (r *supplyInventoryRepo) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	var rows []model.EventSupplyInventory
	err := r.db.WithContext(ctx).Preload("Supply").
		Where("event_id = ? AND is_active = true AND current_qty > 0", eventID).
		Find(&rows).Error
	return rows, err
}

func (r *supplyInventoryRepo) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	var rows []model.EventSupplyInventory
	err := r.db.WithContext(ctx).Preload("Supply").
		Where("event_id = ? AND is_active = true AND current_qty <= min_qty", eventID).
		Order("current_qty ASC").
		Find(&rows).Error
	return rows, err
}

func (r *supplyInventoryRepo) Save(ctx context.Context, inv *model.EventSupplyInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *supplyInventoryRepo) DeductStockTx(tx *gorm.DB, eventID, supplyID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&model.EventSupplyInventory{}).
		Where("event_id = ? AND supply_id = ? AND is_active = true AND current_qty >= ?", eventID, supplyID, qty).
		Update("current_qty", gorm.Expr("current_qty - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *supplyInventoryRepo) AddStock(ctx context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.EventSupplyInventory{}).
		Where("event_id = ? AND supply_id = ? AND is_active = true", eventID, supplyID).
		Update("current_qty", gorm.Expr("current_qty + ?", qty)).Error
}
