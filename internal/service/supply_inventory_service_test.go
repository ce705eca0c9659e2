package service

import (
	"context"
	"testing"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type supplyInvFixture struct {
	svc      SupplyInventoryService
	repo     *stubSupplyInvRepo
	events   *stubEventRepo
	supplies *stubSupplyRepo

	event *model.Event
	bread *model.Supply
}

func newSupplyInvFixture(t *testing.T) *supplyInvFixture {
	t.Helper()
	repo := newStubSupplyInvRepo()
	events := newStubEventRepo()
	supplies := newStubSupplyRepo()

	event := events.add(&model.Event{Name: "feria", IsActive: true})
	bread := supplies.add(&model.Supply{Name: "pan", Unit: model.UnitUnidad, Cost: d("0.50"), IsActive: true})

	return &supplyInvFixture{
		svc:      NewSupplyInventoryService(repo, events, supplies, nil),
		repo:     repo,
		events:   events,
		supplies: supplies,
		event:    event,
		bread:    bread,
	}
}

func TestLoadSupplies_ZeroCostFallsBackToCatalog(t *testing.T) {
	f := newSupplyInvFixture(t)

	resp, err := f.svc.LoadBatch(context.Background(), f.event.ID, dto.LoadSupplyInventoryRequest{
		Supplies: []dto.LoadSupplyItem{{
			SupplyID:   f.bread.ID.String(),
			InitialQty: d("100"),
			MinQty:     d("10"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].Cost.Equal(d("0.50")), "catalog cost used when none given")
	assert.True(t, resp[0].CurrentQty.Equal(d("100")))
}

func TestLoadSupplies_ExplicitCostWins(t *testing.T) {
	f := newSupplyInvFixture(t)

	resp, err := f.svc.LoadBatch(context.Background(), f.event.ID, dto.LoadSupplyInventoryRequest{
		Supplies: []dto.LoadSupplyItem{{
			SupplyID:   f.bread.ID.String(),
			InitialQty: d("100"),
			Cost:       d("0.75"),
		}},
	})
	require.NoError(t, err)
	assert.True(t, resp[0].Cost.Equal(d("0.75")))
}

func TestLoadSupplies_InactiveSupplyRejected(t *testing.T) {
	f := newSupplyInvFixture(t)
	f.bread.IsActive = false

	_, err := f.svc.LoadBatch(context.Background(), f.event.ID, dto.LoadSupplyInventoryRequest{
		Supplies: []dto.LoadSupplyItem{{SupplyID: f.bread.ID.String(), InitialQty: d("10")}},
	})
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
}

func TestLoadSupplies_MinAboveInitialRejected(t *testing.T) {
	f := newSupplyInvFixture(t)

	_, err := f.svc.LoadBatch(context.Background(), f.event.ID, dto.LoadSupplyInventoryRequest{
		Supplies: []dto.LoadSupplyItem{{
			SupplyID:   f.bread.ID.String(),
			InitialQty: d("10"),
			MinQty:     d("20"),
		}},
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSupplyStockAdjustments(t *testing.T) {
	f := newSupplyInvFixture(t)
	ctx := context.Background()
	f.repo.add(&model.EventSupplyInventory{
		EventID:    f.event.ID,
		SupplyID:   f.bread.ID,
		InitialQty: d("100"),
		CurrentQty: d("100"),
		Cost:       d("0.50"),
		IsActive:   true,
		Supply:     f.bread,
	})

	require.NoError(t, f.svc.DecreaseStock(ctx, f.event.ID, f.bread.ID, d("30")))
	row, _ := f.repo.FindOne(ctx, f.event.ID, f.bread.ID)
	assert.True(t, row.CurrentQty.Equal(d("70")))

	err := f.svc.DecreaseStock(ctx, f.event.ID, f.bread.ID, d("71"))
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "pan")

	require.NoError(t, f.svc.IncreaseStock(ctx, f.event.ID, f.bread.ID, d("5")))
	row, _ = f.repo.FindOne(ctx, f.event.ID, f.bread.ID)
	assert.True(t, row.CurrentQty.Equal(d("75")))
}
