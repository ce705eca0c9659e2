package service

import (
	"context"
	"testing"

	"eventpos/internal/apierror"
	"eventpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kitchenFixture struct {
	svc        KitchenService
	orders     *stubOrderRepo
	productInv *stubProductInvRepo
	supplyInv  *stubSupplyInvRepo
	products   *stubProductRepo

	event  *model.Event
	burger *model.Product
	bread  *model.Supply
	meat   *model.Supply
}

// newKitchenFixture sets up one recipe-bearing product (hamburguesa: 2 panes +
// 0.2 kg de carne) loaded to an active event with both supplies.
func newKitchenFixture(t *testing.T) *kitchenFixture {
	t.Helper()
	orders := newStubOrderRepo()
	productInv := newStubProductInvRepo()
	supplyInv := newStubSupplyInvRepo()
	products := newStubProductRepo()

	event := &model.Event{ID: uuid.New(), Name: "festival", IsActive: true}
	burger := products.add(&model.Product{Name: "hamburguesa", HasRecipe: true, IsActive: true})
	bread := &model.Supply{ID: uuid.New(), Name: "pan", Unit: model.UnitUnidad, Cost: d("0.50"), IsActive: true}
	meat := &model.Supply{ID: uuid.New(), Name: "carne", Unit: model.UnitKilogramo, Cost: d("8"), IsActive: true}

	products.recipes[burger.ID] = []model.ProductSupply{
		{ProductID: burger.ID, SupplyID: bread.ID, QtyPerUnit: d("2"), Supply: bread},
		{ProductID: burger.ID, SupplyID: meat.ID, QtyPerUnit: d("0.2"), Supply: meat},
	}

	productInv.add(&model.EventProductInventory{
		EventID:    event.ID,
		ProductID:  burger.ID,
		InitialQty: d("20"),
		CurrentQty: d("20"),
		SalePrice:  d("15"),
		HasRecipe:  true,
		IsActive:   true,
		Product:    burger,
	})
	supplyInv.add(&model.EventSupplyInventory{
		EventID:    event.ID,
		SupplyID:   bread.ID,
		InitialQty: d("100"),
		CurrentQty: d("100"),
		Cost:       d("0.50"),
		IsActive:   true,
		Supply:     bread,
	})
	supplyInv.add(&model.EventSupplyInventory{
		EventID:    event.ID,
		SupplyID:   meat.ID,
		InitialQty: d("10"),
		CurrentQty: d("10"),
		Cost:       d("8"),
		IsActive:   true,
		Supply:     meat,
	})

	return &kitchenFixture{
		svc:        NewKitchenService(orders, productInv, supplyInv, products, nil),
		orders:     orders,
		productInv: productInv,
		supplyInv:  supplyInv,
		products:   products,
		event:      event,
		burger:     burger,
		bread:      bread,
		meat:       meat,
	}
}

func (f *kitchenFixture) addOrder(qty int, status string) *model.Order {
	return f.orders.add(&model.Order{
		EventID:     f.event.ID,
		CreatedBy:   uuid.New(),
		OrderNumber: len(f.orders.orders) + 1,
		Status:      status,
		TotalAmount: d("15").Mul(decimal.NewFromInt(int64(qty))),
		Items: []model.OrderItem{{
			ProductID: f.burger.ID,
			Qty:       qty,
			UnitPrice: d("15"),
			Status:    status,
			Product:   f.burger,
		}},
	})
}

func TestStartPreparation_DeductsProductStock(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()
	order := f.addOrder(3, model.StatusPending)

	resp, err := f.svc.StartPreparation(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, resp.Status)
	for _, item := range resp.Items {
		assert.Equal(t, model.StatusInProgress, item.Status)
	}

	row, err := f.productInv.FindOne(ctx, f.event.ID, f.burger.ID)
	require.NoError(t, err)
	assert.True(t, row.CurrentQty.Equal(d("17")))

	// Supplies are untouched until completion.
	bread, _ := f.supplyInv.FindOne(ctx, f.event.ID, f.bread.ID)
	assert.True(t, bread.CurrentQty.Equal(d("100")))
}

func TestStartPreparation_InsufficientStock(t *testing.T) {
	f := newKitchenFixture(t)
	order := f.addOrder(25, model.StatusPending)

	_, err := f.svc.StartPreparation(context.Background(), order.ID)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "hamburguesa")
}

func TestStartPreparation_OnlyFromPending(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()

	for _, status := range []string{model.StatusInProgress, model.StatusCompleted, model.StatusCancelled} {
		order := f.addOrder(1, status)
		_, err := f.svc.StartPreparation(ctx, order.ID)
		assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err), "status %s", status)
	}
}

func TestStartPreparation_LostRaceDeductsNothing(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()

	// Another caller already moved the order to IN_PROGRESS; this caller still
	// read it as PENDING. The conditional transition must lose and leave the
	// inventory alone instead of deducting a second time.
	order := f.addOrder(3, model.StatusInProgress)
	stale := &staleOrderRepo{stubOrderRepo: f.orders, readStatus: model.StatusPending}
	svc := NewKitchenService(stale, f.productInv, f.supplyInv, f.products, nil)

	_, err := svc.StartPreparation(ctx, order.ID)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))

	row, _ := f.productInv.FindOne(ctx, f.event.ID, f.burger.ID)
	assert.True(t, row.CurrentQty.Equal(d("20")))
}

func TestCompletePreparation_ConsumesRecipeSupplies(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()
	order := f.addOrder(4, model.StatusInProgress)

	resp, err := f.svc.CompletePreparation(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, resp.Status)

	// 4 burgers × 2 panes and 4 × 0.2 kg de carne.
	bread, _ := f.supplyInv.FindOne(ctx, f.event.ID, f.bread.ID)
	assert.True(t, bread.CurrentQty.Equal(d("92")))
	meat, _ := f.supplyInv.FindOne(ctx, f.event.ID, f.meat.ID)
	assert.True(t, meat.CurrentQty.Equal(d("9.2")))
}

func TestCompletePreparation_InsufficientSupply(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()
	meatRow, _ := f.supplyInv.FindOne(ctx, f.event.ID, f.meat.ID)
	meatRow.CurrentQty = d("0.1")
	order := f.addOrder(1, model.StatusInProgress)

	_, err := f.svc.CompletePreparation(ctx, order.ID)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "carne")
}

func TestCompletePreparation_HonorsRecipeSnapshot(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()

	// The inventory row was loaded without a recipe; even though the catalog
	// now carries one, completion consumes nothing.
	row, _ := f.productInv.FindOne(ctx, f.event.ID, f.burger.ID)
	row.HasRecipe = false

	order := f.addOrder(2, model.StatusInProgress)
	_, err := f.svc.CompletePreparation(ctx, order.ID)
	require.NoError(t, err)

	bread, _ := f.supplyInv.FindOne(ctx, f.event.ID, f.bread.ID)
	assert.True(t, bread.CurrentQty.Equal(d("100")))
}

func TestCompletePreparation_OnlyFromInProgress(t *testing.T) {
	f := newKitchenFixture(t)
	ctx := context.Background()

	for _, status := range []string{model.StatusPending, model.StatusCompleted, model.StatusCancelled} {
		order := f.addOrder(1, status)
		_, err := f.svc.CompletePreparation(ctx, order.ID)
		assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err), "status %s", status)
	}
}

func TestGetOrderWithRecipes_ExpandsTotals(t *testing.T) {
	f := newKitchenFixture(t)
	order := f.addOrder(3, model.StatusPending)

	resp, err := f.svc.GetOrderWithRecipes(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Items[0].Recipe, 2)

	breadLine := resp.Items[0].Recipe[0]
	assert.Equal(t, "pan", breadLine.SupplyName)
	assert.True(t, breadLine.TotalNeeded.Equal(d("6")))
	meatLine := resp.Items[0].Recipe[1]
	assert.True(t, meatLine.TotalNeeded.Equal(d("0.6")))
}

func TestFindPending_ListsOnlyPendingOrders(t *testing.T) {
	f := newKitchenFixture(t)
	f.addOrder(1, model.StatusPending)
	f.addOrder(1, model.StatusCompleted)

	resp, err := f.svc.FindPending(context.Background(), f.event.ID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, model.StatusPending, resp[0].Status)
}
