package repository

import (
	"context"

	"eventpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInventoryRepository manages the per-event product stock rows.
//
// Stock deductions are single conditional UPDATE statements so that two
// concurrent deductions against the same row can never both succeed when the
// combined quantity would drive current_qty negative — the loser simply
// matches zero rows.
type ProductInventoryRepository interface {
	CreateBatchTx(tx *gorm.DB, rows []model.EventProductInventory) error
	FindOne(ctx context.Context, eventID, productID uuid.UUID) (*model.EventProductInventory, error)
	FindOneTx(tx *gorm.DB, eventID, productID uuid.UUID) (*model.EventProductInventory, error)
	FindAll(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error)
	FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error)
	FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error)
	Save(ctx context.Context, inv *model.EventProductInventory) error

	// DeductStockTx atomically decrements current_qty when enough stock
	// remains. Returns false when the conditional update matched no row
	// (insufficient stock or inactive row).
	DeductStockTx(tx *gorm.DB, eventID, productID uuid.UUID, qty decimal.Decimal) (bool, error)
	AddStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error

	DB() *gorm.DB
}

type productInventoryRepo struct{ db *gorm.DB }

func NewProductInventoryRepository(db *gorm.DB) ProductInventoryRepository {
	return &productInventoryRepo{db: db}
}

func (r *productInventoryRepo) DB() *gorm.DB { return r.db }

func (r *productInventoryRepo) CreateBatchTx(tx *gorm.DB, rows []model.EventProductInventory) error {
	return tx.Create(&rows).Error
}

func (r *productInventoryRepo) FindOne(ctx context.Context, eventID, productID uuid.UUID) (*model.EventProductInventory, error) {
	return r.FindOneTx(r.db.WithContext(ctx), eventID, productID)
}

func (r *productInventoryRepo) FindOneTx(tx *gorm.DB, eventID, productID uuid.UUID) (*model.EventProductInventory, error) {
	var inv model.EventProductInventory
	err := tx.Preload("Product").Preload("Event").
		Where("event_id = ? AND product_id = ?", eventID, productID).
		First(&inv).Error
	return &inv, err
}

func (r *productInventoryRepo) FindAll(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	var rows []model.EventProductInventory
	err := r.db.WithContext(ctx).Preload("Product").
		Where("event_id = ? AND is_active = true", eventID).
		Find(&rows).Error
	return rows, err
}

func (r *productInventoryRepo) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	var rows []model.EventProductInventory
	err := r.db.WithContext(ctx).Preload("Product").
		Where("event_id = ? AND is_active = true AND current_qty > 0", eventID).
		Find(&rows).Error
	return rows, err
}

func (r *productInventoryRepo) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	var rows []model.EventProductInventory
	err := r.db.WithContext(ctx).Preload("Product").
		Where("event_id = ? AND is_active = true AND current_qty <= min_qty", eventID).
		Order("current_qty ASC").
		Find(&rows).Error
	return rows, err
}

func (r *productInventoryRepo) Save(ctx context.Context, inv *model.EventProductInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *productInventoryRepo) DeductStockTx(tx *gorm.DB, eventID, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&model.EventProductInventory{}).
		Where("event_id = ? AND product_id = ? AND is_active = true AND current_qty >= ?", eventID, productID, qty).
		Update("current_qty", gorm.Expr("current_qty - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *productInventoryRepo) AddStock(ctx context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.EventProductInventory{}).
		Where("event_id = ? AND product_id = ? AND is_active = true", eventID, productID).
		Update("current_qty", gorm.Expr("current_qty + ?", qty)).Error
}
