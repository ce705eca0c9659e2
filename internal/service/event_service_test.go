package service

import (
	"context"
	"testing"
	"time"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventReq(name string) dto.CreateEventRequest {
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return dto.CreateEventRequest{
		Name:      name,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	}
}

func TestCreateEvent_NormalizesName(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)

	resp, err := svc.Create(context.Background(), validEventReq("  Feria Gastronómica  "))
	require.NoError(t, err)
	assert.Equal(t, "feria gastronómica", resp.Name)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.IsClosed)
}

func TestCreateEvent_EndMustNotPrecedeStart(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)

	// Equal timestamps are a valid one-day event.
	req := validEventReq("feria")
	req.EndDate = req.StartDate
	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)

	req = validEventReq("otra feria")
	req.EndDate = req.StartDate.Add(-time.Hour)
	_, err = svc.Create(context.Background(), req)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateEvent_ActiveNameCollision(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, validEventReq("feria"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validEventReq("FERIA"))
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// An inactive event with the same name does not block creation.
	existing, err := repo.FindByName(ctx, "feria")
	require.NoError(t, err)
	existing.IsActive = false
	_, err = svc.Create(ctx, validEventReq("feria"))
	assert.NoError(t, err)
}

func TestCloseEvent_IsTerminal(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validEventReq("feria"))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, svc.Close(ctx, id))
	event, _ := repo.FindByID(ctx, id)
	assert.True(t, event.IsClosed)
	assert.False(t, event.IsActive)

	// No mutation survives a close: not re-closing, reactivating nor editing.
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(svc.Close(ctx, id)))
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(svc.Activate(ctx, id)))
	_, err = svc.Update(ctx, id, dto.UpdateEventRequest{Name: "otra feria"})
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
}

func TestRemoveEvent_IsDeactivation(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validEventReq("feria"))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, svc.Remove(ctx, id))
	event, _ := repo.FindByID(ctx, id)
	assert.False(t, event.IsActive)
	assert.False(t, event.IsClosed, "removal never closes the event")

	// Deactivation is reversible.
	require.NoError(t, svc.Activate(ctx, id))
	event, _ = repo.FindByID(ctx, id)
	assert.True(t, event.IsActive)
}

func TestUpdateEvent_ValidatesDatesAfterPatch(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validEventReq("feria"))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	badEnd := resp.StartDate.Add(-time.Hour)
	_, err = svc.Update(ctx, id, dto.UpdateEventRequest{EndDate: &badEnd})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	// Collapsing the event to a single instant is allowed.
	equalEnd := resp.StartDate
	_, err = svc.Update(ctx, id, dto.UpdateEventRequest{EndDate: &equalEnd})
	assert.NoError(t, err)
}

func TestFindAllActive_FiltersInactive(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	repo.add(&model.Event{Name: "activo", IsActive: true})
	repo.add(&model.Event{Name: "inactivo", IsActive: false})

	active, err := svc.FindAllActive(ctx, dto.Pagination{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "activo", active[0].Name)

	all, err := svc.FindAll(ctx, dto.Pagination{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
