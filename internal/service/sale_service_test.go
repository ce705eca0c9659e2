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

func TestAggregateSales(t *testing.T) {
	sales := []model.Sale{
		{ID: uuid.New(), OrderID: uuid.New(), Method: model.MethodEfectivo, Amount: d("100"), Status: model.SaleCompleted},
		{ID: uuid.New(), OrderID: uuid.New(), Method: model.MethodEfectivo, Amount: d("50"), Status: model.SaleCancelled},
		{ID: uuid.New(), OrderID: uuid.New(), Method: model.MethodTransferencia, Amount: d("200"), Status: model.SaleCompleted},
	}

	totals := aggregateSales(sales)

	assert.Equal(t, 3, totals.TotalSales)
	assert.Equal(t, 2, totals.CompletedSales)
	assert.Equal(t, 1, totals.CancelledSales)

	// Revenue counts completed sales only; refunds are the cancelled
	// amounts and net is completed minus cancelled.
	assert.True(t, totals.TotalRevenue.Equal(d("300")))
	assert.True(t, totals.TotalRefunds.Equal(d("50")))
	assert.True(t, totals.NetRevenue.Equal(d("250")))

	cash := totals.ByMethod[model.MethodEfectivo]
	assert.Equal(t, 1, cash.CompletedCount)
	assert.Equal(t, 1, cash.CancelledCount)
	assert.True(t, cash.CompletedAmount.Equal(d("100")))
	assert.True(t, cash.CancelledAmount.Equal(d("50")))
	assert.True(t, cash.Net.Equal(d("50")), "net is completed minus cancelled")

	transfer := totals.ByMethod[model.MethodTransferencia]
	assert.Equal(t, 1, transfer.CompletedCount)
	assert.Equal(t, 0, transfer.CancelledCount)
	assert.True(t, transfer.Net.Equal(d("200")))
}

func TestAggregateSales_Empty(t *testing.T) {
	totals := aggregateSales(nil)
	assert.Equal(t, 0, totals.TotalSales)
	assert.True(t, totals.TotalRevenue.IsZero())
	assert.True(t, totals.NetRevenue.IsZero())
	assert.Empty(t, totals.ByMethod)
}

func TestSaleService_GetTotals(t *testing.T) {
	events := newStubEventRepo()
	sales := newStubSaleRepo()
	event := events.add(&model.Event{Name: "feria", IsActive: true})
	sales.add(&model.Sale{OrderID: uuid.New(), Method: model.MethodEfectivo, Amount: d("80"), Status: model.SaleCompleted})

	svc := NewSaleService(sales, events)

	totals, err := svc.GetTotals(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, totals.TotalRevenue.Equal(d("80")))

	_, err = svc.GetTotals(context.Background(), uuid.New())
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestSaleService_FilterByMethod(t *testing.T) {
	events := newStubEventRepo()
	sales := newStubSaleRepo()
	event := events.add(&model.Event{Name: "feria", IsActive: true})
	sales.add(&model.Sale{OrderID: uuid.New(), Method: model.MethodEfectivo, Amount: d("80"), Status: model.SaleCompleted})
	sales.add(&model.Sale{OrderID: uuid.New(), Method: model.MethodTransferencia, Amount: d("90"), Status: model.SaleCompleted})

	svc := NewSaleService(sales, events)

	resp, err := svc.FindByEvent(context.Background(), event.ID, dto.SaleFilter{Method: model.MethodTransferencia})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, model.MethodTransferencia, resp[0].Method)
}

func TestSaleService_CancelByOrderIsOneWay(t *testing.T) {
	events := newStubEventRepo()
	sales := newStubSaleRepo()
	orderID := uuid.New()
	sale := sales.add(&model.Sale{OrderID: orderID, Method: model.MethodEfectivo, Amount: d("80"), Status: model.SaleCompleted})

	svc := NewSaleService(sales, events)
	ctx := context.Background()

	require.NoError(t, svc.CancelByOrder(ctx, orderID))
	assert.Equal(t, model.SaleCancelled, sale.Status)

	err := svc.CancelByOrder(ctx, orderID)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))

	err = svc.CancelByOrder(ctx, uuid.New())
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
