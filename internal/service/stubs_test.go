package service

import (
	"context"
	"errors"

	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Every DB() returns nil so runTx executes the
// transaction body directly.

var errStubNotFound = errors.New("not found")

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// ── Events ────────────────────────────────────────────────────────────────────

type stubEventRepo struct {
	events map[uuid.UUID]*model.Event
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[uuid.UUID]*model.Event)}
}

func (r *stubEventRepo) add(e *model.Event) *model.Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.events[e.ID] = e
	return e
}

func (r *stubEventRepo) Create(_ context.Context, e *model.Event) error {
	r.add(e)
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, errStubNotFound
	}
	return e, nil
}

func (r *stubEventRepo) FindByName(_ context.Context, name string) (*model.Event, error) {
	for _, e := range r.events {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubEventRepo) List(_ context.Context, _, _ int) ([]model.Event, error) {
	out := make([]model.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEventRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Event, error) {
	all, _ := r.List(ctx, limit, offset)
	out := all[:0]
	for _, e := range all {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEventRepo) Save(_ context.Context, e *model.Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *stubEventRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Event, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubEventRepo) DB() *gorm.DB { return nil }

var _ repository.EventRepository = (*stubEventRepo)(nil)

// ── Products and recipes ──────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	recipes  map[uuid.UUID][]model.ProductSupply
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		recipes:  make(map[uuid.UUID][]model.ProductSupply),
	}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errStubNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubProductRepo) List(_ context.Context, _, _ int) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Product, error) {
	all, _ := r.List(ctx, limit, offset)
	out := all[:0]
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Search(ctx context.Context, _ string, limit, offset int) ([]model.Product, error) {
	return r.ListActive(ctx, limit, offset)
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateRecipeLine(_ context.Context, ps *model.ProductSupply) error {
	if ps.ID == uuid.Nil {
		ps.ID = uuid.New()
	}
	r.recipes[ps.ProductID] = append(r.recipes[ps.ProductID], *ps)
	return nil
}

func (r *stubProductRepo) FindRecipeLine(_ context.Context, productID, supplyID uuid.UUID) (*model.ProductSupply, error) {
	for i := range r.recipes[productID] {
		if r.recipes[productID][i].SupplyID == supplyID {
			return &r.recipes[productID][i], nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubProductRepo) GetRecipe(_ context.Context, productID uuid.UUID) ([]model.ProductSupply, error) {
	return r.recipes[productID], nil
}

func (r *stubProductRepo) SaveRecipeLine(_ context.Context, ps *model.ProductSupply) error {
	for i := range r.recipes[ps.ProductID] {
		if r.recipes[ps.ProductID][i].SupplyID == ps.SupplyID {
			r.recipes[ps.ProductID][i] = *ps
			return nil
		}
	}
	return errStubNotFound
}

func (r *stubProductRepo) DeleteRecipeLine(_ context.Context, ps *model.ProductSupply) error {
	lines := r.recipes[ps.ProductID]
	for i := range lines {
		if lines[i].SupplyID == ps.SupplyID {
			r.recipes[ps.ProductID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return errStubNotFound
}

func (r *stubProductRepo) CountRecipeLines(_ context.Context, productID uuid.UUID) (int64, error) {
	return int64(len(r.recipes[productID])), nil
}

func (r *stubProductRepo) GetUsages(_ context.Context, supplyID uuid.UUID) ([]model.ProductSupply, error) {
	var out []model.ProductSupply
	for _, lines := range r.recipes {
		for _, line := range lines {
			if line.SupplyID == supplyID {
				out = append(out, line)
			}
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Supplies ──────────────────────────────────────────────────────────────────

type stubSupplyRepo struct {
	supplies map[uuid.UUID]*model.Supply
}

func newStubSupplyRepo() *stubSupplyRepo {
	return &stubSupplyRepo{supplies: make(map[uuid.UUID]*model.Supply)}
}

func (r *stubSupplyRepo) add(s *model.Supply) *model.Supply {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.supplies[s.ID] = s
	return s
}

func (r *stubSupplyRepo) Create(_ context.Context, s *model.Supply) error {
	r.add(s)
	return nil
}

func (r *stubSupplyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supply, error) {
	s, ok := r.supplies[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSupplyRepo) FindByName(_ context.Context, name string) (*model.Supply, error) {
	for _, s := range r.supplies {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubSupplyRepo) List(_ context.Context, _, _ int) ([]model.Supply, error) {
	out := make([]model.Supply, 0, len(r.supplies))
	for _, s := range r.supplies {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplyRepo) ListActive(ctx context.Context, limit, offset int) ([]model.Supply, error) {
	all, _ := r.List(ctx, limit, offset)
	out := all[:0]
	for _, s := range all {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSupplyRepo) Search(ctx context.Context, _ string, limit, offset int) ([]model.Supply, error) {
	return r.ListActive(ctx, limit, offset)
}

func (r *stubSupplyRepo) Save(_ context.Context, s *model.Supply) error {
	r.supplies[s.ID] = s
	return nil
}

var _ repository.SupplyRepository = (*stubSupplyRepo)(nil)

// ── Product inventory ─────────────────────────────────────────────────────────

type invKey struct{ event, item uuid.UUID }

type stubProductInvRepo struct {
	rows map[invKey]*model.EventProductInventory
}

func newStubProductInvRepo() *stubProductInvRepo {
	return &stubProductInvRepo{rows: make(map[invKey]*model.EventProductInventory)}
}

func (r *stubProductInvRepo) add(row *model.EventProductInventory) *model.EventProductInventory {
	r.rows[invKey{row.EventID, row.ProductID}] = row
	return row
}

func (r *stubProductInvRepo) CreateBatchTx(_ *gorm.DB, rows []model.EventProductInventory) error {
	for i := range rows {
		row := rows[i]
		r.rows[invKey{row.EventID, row.ProductID}] = &row
	}
	return nil
}

func (r *stubProductInvRepo) FindOne(_ context.Context, eventID, productID uuid.UUID) (*model.EventProductInventory, error) {
	row, ok := r.rows[invKey{eventID, productID}]
	if !ok {
		return nil, errStubNotFound
	}
	return row, nil
}

func (r *stubProductInvRepo) FindOneTx(_ *gorm.DB, eventID, productID uuid.UUID) (*model.EventProductInventory, error) {
	return r.FindOne(context.Background(), eventID, productID)
}

func (r *stubProductInvRepo) FindAll(_ context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	var out []model.EventProductInventory
	for _, row := range r.rows {
		if row.EventID == eventID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubProductInvRepo) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	all, _ := r.FindAll(ctx, eventID)
	out := all[:0]
	for _, row := range all {
		if row.IsActive && row.CurrentQty.IsPositive() {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubProductInvRepo) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventProductInventory, error) {
	all, _ := r.FindAll(ctx, eventID)
	out := all[:0]
	for _, row := range all {
		if row.IsActive && row.CurrentQty.LessThanOrEqual(row.MinQty) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubProductInvRepo) Save(_ context.Context, row *model.EventProductInventory) error {
	r.rows[invKey{row.EventID, row.ProductID}] = row
	return nil
}

func (r *stubProductInvRepo) DeductStockTx(_ *gorm.DB, eventID, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	row, ok := r.rows[invKey{eventID, productID}]
	if !ok || !row.IsActive || row.CurrentQty.LessThan(qty) {
		return false, nil
	}
	row.CurrentQty = row.CurrentQty.Sub(qty)
	return true, nil
}

func (r *stubProductInvRepo) AddStock(_ context.Context, eventID, productID uuid.UUID, qty decimal.Decimal) error {
	row, ok := r.rows[invKey{eventID, productID}]
	if !ok {
		return errStubNotFound
	}
	row.CurrentQty = row.CurrentQty.Add(qty)
	return nil
}

func (r *stubProductInvRepo) DB() *gorm.DB { return nil }

var _ repository.ProductInventoryRepository = (*stubProductInvRepo)(nil)

// ── Supply inventory ──────────────────────────────────────────────────────────

type stubSupplyInvRepo struct {
	rows map[invKey]*model.EventSupplyInventory
}

func newStubSupplyInvRepo() *stubSupplyInvRepo {
	return &stubSupplyInvRepo{rows: make(map[invKey]*model.EventSupplyInventory)}
}

func (r *stubSupplyInvRepo) add(row *model.EventSupplyInventory) *model.EventSupplyInventory {
	r.rows[invKey{row.EventID, row.SupplyID}] = row
	return row
}

func (r *stubSupplyInvRepo) CreateBatchTx(_ *gorm.DB, rows []model.EventSupplyInventory) error {
	for i := range rows {
		row := rows[i]
		r.rows[invKey{row.EventID, row.SupplyID}] = &row
	}
	return nil
}

func (r *stubSupplyInvRepo) FindOne(_ context.Context, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error) {
	row, ok := r.rows[invKey{eventID, supplyID}]
	if !ok {
		return nil, errStubNotFound
	}
	return row, nil
}

func (r *stubSupplyInvRepo) FindOneTx(_ *gorm.DB, eventID, supplyID uuid.UUID) (*model.EventSupplyInventory, error) {
	return r.FindOne(context.Background(), eventID, supplyID)
}

func (r *stubSupplyInvRepo) FindAll(_ context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	var out []model.EventSupplyInventory
	for _, row := range r.rows {
		if row.EventID == eventID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubSupplyInvRepo) FindAvailable(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	all, _ := r.FindAll(ctx, eventID)
	out := all[:0]
	for _, row := range all {
		if row.IsActive && row.CurrentQty.IsPositive() {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubSupplyInvRepo) FindLowStock(ctx context.Context, eventID uuid.UUID) ([]model.EventSupplyInventory, error) {
	all, _ := r.FindAll(ctx, eventID)
	out := all[:0]
	for _, row := range all {
		if row.IsActive && row.CurrentQty.LessThanOrEqual(row.MinQty) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubSupplyInvRepo) Save(_ context.Context, row *model.EventSupplyInventory) error {
	r.rows[invKey{row.EventID, row.SupplyID}] = row
	return nil
}

func (r *stubSupplyInvRepo) DeductStockTx(_ *gorm.DB, eventID, supplyID uuid.UUID, qty decimal.Decimal) (bool, error) {
	row, ok := r.rows[invKey{eventID, supplyID}]
	if !ok || !row.IsActive || row.CurrentQty.LessThan(qty) {
		return false, nil
	}
	row.CurrentQty = row.CurrentQty.Sub(qty)
	return true, nil
}

func (r *stubSupplyInvRepo) AddStock(_ context.Context, eventID, supplyID uuid.UUID, qty decimal.Decimal) error {
	row, ok := r.rows[invKey{eventID, supplyID}]
	if !ok {
		return errStubNotFound
	}
	row.CurrentQty = row.CurrentQty.Add(qty)
	return nil
}

func (r *stubSupplyInvRepo) DB() *gorm.DB { return nil }

var _ repository.SupplyInventoryRepository = (*stubSupplyInvRepo)(nil)

// ── Orders ────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) add(o *model.Order) *model.Order {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return o
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	r.add(o)
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errStubNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) NextOrderNumberTx(_ *gorm.DB, eventID uuid.UUID) (int, error) {
	max := 0
	for _, o := range r.orders {
		if o.EventID == eventID && o.OrderNumber > max {
			max = o.OrderNumber
		}
	}
	return max + 1, nil
}

func (r *stubOrderRepo) ListByEvent(_ context.Context, eventID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.EventID != eventID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && o.CreatedBy.String() != filter.CreatedBy {
			continue
		}
		if filter.OrderNumber != 0 && o.OrderNumber != filter.OrderNumber {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, eventID, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.EventID == eventID && o.CreatedBy == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListByStatus(_ context.Context, eventID uuid.UUID, status string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.EventID == eventID && o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) TransitionStatusTx(_ *gorm.DB, orderID uuid.UUID, from, to string) (bool, error) {
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *stubOrderRepo) UpdateItemStatusesTx(_ *gorm.DB, orderID uuid.UUID, status string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return errStubNotFound
	}
	for i := range o.Items {
		o.Items[i].Status = status
	}
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// staleOrderRepo serves reads frozen at a fixed status while the stored row
// has moved on, mimicking a concurrent transaction committing between the
// caller's read and its write.
type staleOrderRepo struct {
	*stubOrderRepo
	readStatus string
}

func (r *staleOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := r.stubOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stale := *o
	stale.Status = r.readStatus
	return &stale, nil
}

var (
	_ repository.OrderRepository = (*stubOrderRepo)(nil)
	_ repository.OrderRepository = (*staleOrderRepo)(nil)
)

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) add(s *model.Sale) *model.Sale {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return s
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.add(s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByOrder(_ context.Context, orderID uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.OrderID == orderID {
			return s, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubSaleRepo) FindByOrderTx(_ *gorm.DB, orderID uuid.UUID) (*model.Sale, error) {
	return r.FindByOrder(context.Background(), orderID)
}

// ListByEvent ignores event scoping; stub tests operate on a single event.
func (r *stubSaleRepo) ListByEvent(_ context.Context, _ uuid.UUID, filter dto.SaleFilter) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Method != "" && s.Method != filter.Method {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, saleID uuid.UUID, status string) error {
	s, ok := r.sales[saleID]
	if !ok {
		return errStubNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.add(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errStubNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUserName(_ context.Context, userName string) (*model.User, error) {
	for _, u := range r.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)
