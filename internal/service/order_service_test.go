package service

import (
	"context"
	"testing"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc        OrderService
	events     *stubEventRepo
	orders     *stubOrderRepo
	sales      *stubSaleRepo
	productInv *stubProductInvRepo

	event  *model.Event
	burger *model.Product
	userID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	events := newStubEventRepo()
	orders := newStubOrderRepo()
	sales := newStubSaleRepo()
	productInv := newStubProductInvRepo()

	event := events.add(&model.Event{Name: "feria gastronómica", IsActive: true})
	burger := &model.Product{ID: uuid.New(), Name: "hamburguesa", IsActive: true}
	productInv.add(&model.EventProductInventory{
		EventID:    event.ID,
		ProductID:  burger.ID,
		InitialQty: d("50"),
		CurrentQty: d("50"),
		SalePrice:  d("15.50"),
		IsActive:   true,
		Product:    burger,
	})

	return &orderFixture{
		svc:        NewOrderService(orders, sales, events, productInv),
		events:     events,
		orders:     orders,
		sales:      sales,
		productInv: productInv,
		event:      event,
		burger:     burger,
		userID:     uuid.New(),
	}
}

func (f *orderFixture) createReq(qty int) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items:         []dto.CreateOrderItem{{ProductID: f.burger.ID.String(), Qty: qty}},
		PaymentMethod: model.MethodEfectivo,
	}
}

func TestCreateOrder_RegistersOrderAndSale(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(3))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.OrderNumber)
	assert.Equal(t, model.StatusPending, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(d("46.50")))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "hamburguesa", resp.Items[0].ProductName)
	assert.True(t, resp.Items[0].UnitPrice.Equal(d("15.50")))

	// The sale is born in the same transaction, COMPLETED, for the full total.
	orderID := uuid.MustParse(resp.ID)
	sale, err := f.sales.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, model.MethodEfectivo, sale.Method)
	assert.True(t, sale.Amount.Equal(d("46.50")))

	// No stock moves at creation; reservation happens at preparation.
	row, err := f.productInv.FindOne(ctx, f.event.ID, f.burger.ID)
	require.NoError(t, err)
	assert.True(t, row.CurrentQty.Equal(d("50")))
}

func TestCreateOrder_NumbersArePerEventSequential(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
	require.NoError(t, err)

	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, 2, second.OrderNumber)

	// Another event starts its own sequence.
	other := f.events.add(&model.Event{Name: "otro evento", IsActive: true})
	f.productInv.add(&model.EventProductInventory{
		EventID:    other.ID,
		ProductID:  f.burger.ID,
		InitialQty: d("10"),
		CurrentQty: d("10"),
		SalePrice:  d("10"),
		IsActive:   true,
		Product:    f.burger,
	})
	third, err := f.svc.Create(ctx, other.ID, f.userID, f.createReq(1))
	require.NoError(t, err)
	assert.Equal(t, 1, third.OrderNumber)
}

func TestCreateOrder_RejectsClosedEvents(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.event.IsClosed = true
	_, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))

	// A deactivated (but open) event still takes orders.
	f.event.IsClosed = false
	f.event.IsActive = false
	resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, resp.Status)
}

func TestCreateOrder_UnknownEvent(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), f.userID, f.createReq(1))
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestCreateOrder_InsufficientStockIsAdvisory(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.event.ID, f.userID, f.createReq(51))
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "hamburguesa")
}

func TestCreateOrder_ProductNotLoadedToEvent(t *testing.T) {
	f := newOrderFixture(t)
	req := dto.CreateOrderRequest{
		Items:         []dto.CreateOrderItem{{ProductID: uuid.NewString(), Qty: 1}},
		PaymentMethod: model.MethodTransferencia,
	}

	_, err := f.svc.Create(context.Background(), f.event.ID, f.userID, req)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestCancelOrder_PendingOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(2))
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Cancel(ctx, orderID))

	order, err := f.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, order.Status)
	for _, item := range order.Items {
		assert.Equal(t, model.StatusCancelled, item.Status)
	}

	sale, err := f.sales.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, sale.Status)

	// Cancellation is one-way; a second attempt is rejected.
	err = f.svc.Cancel(ctx, orderID)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
}

func TestCancelOrder_RejectedOncePreparationStarted(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	for _, status := range []string{model.StatusInProgress, model.StatusCompleted} {
		resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
		require.NoError(t, err)
		orderID := uuid.MustParse(resp.ID)
		order, err := f.orders.FindByID(ctx, orderID)
		require.NoError(t, err)
		order.Status = status

		err = f.svc.Cancel(ctx, orderID)
		assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err), "status %s", status)
	}
}

func TestCancelOrder_LostRaceLeavesSaleCompleted(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(2))
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	// The kitchen started preparation after this caller read the order as
	// PENDING; the conditional transition loses and nothing is refunded.
	order, err := f.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	order.Status = model.StatusInProgress

	stale := &staleOrderRepo{stubOrderRepo: f.orders, readStatus: model.StatusPending}
	svc := NewOrderService(stale, f.sales, f.events, f.productInv)

	err = svc.Cancel(ctx, orderID)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))

	sale, err := f.sales.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, model.StatusInProgress, order.Status)
}

func TestCancelOrder_DoesNotRestoreStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(5))
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, uuid.MustParse(resp.ID)))

	row, err := f.productInv.FindOne(ctx, f.event.ID, f.burger.ID)
	require.NoError(t, err)
	assert.True(t, row.CurrentQty.Equal(d("50")))
}

func TestFindByUser_OnlyOwnOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	otherUser := uuid.New()
	_, err := f.svc.Create(ctx, f.event.ID, f.userID, f.createReq(1))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.event.ID, otherUser, f.createReq(1))
	require.NoError(t, err)

	mine, err := f.svc.FindByUser(ctx, f.event.ID, f.userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.userID.String(), mine[0].CreatedBy)
}
