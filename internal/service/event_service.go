package service

import (
	"context"

	"eventpos/internal/apierror"
	"eventpos/internal/dto"
	"eventpos/internal/model"
	"eventpos/internal/repository"

	"github.com/google/uuid"
)

type EventService interface {
	Create(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error)
	FindAll(ctx context.Context, p dto.Pagination) ([]dto.EventResponse, error)
	FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.EventResponse, error)
	FindOne(ctx context.Context, id uuid.UUID) (*dto.EventResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*dto.EventResponse, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Close(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Create(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, apierror.Validation("la fecha de fin no puede ser anterior a la de inicio")
	}

	name := normalizeName(req.Name)
	if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.IsActive {
		return nil, apierror.Conflict("ya existe un evento activo con el nombre %q", name)
	}

	event := &model.Event{
		Name:      name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return eventToResponse(event), nil
}

func (s *eventService) FindAll(ctx context.Context, p dto.Pagination) ([]dto.EventResponse, error) {
	limit, offset := p.Normalize()
	events, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return eventsToResponses(events), nil
}

func (s *eventService) FindAllActive(ctx context.Context, p dto.Pagination) ([]dto.EventResponse, error) {
	limit, offset := p.Normalize()
	events, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return eventsToResponses(events), nil
}

func (s *eventService) FindOne(ctx context.Context, id uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", id)
	}
	return eventToResponse(event), nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("evento %s no encontrado", id)
	}
	if event.IsClosed {
		return nil, apierror.InvalidState("el evento %q está cerrado y no admite cambios", event.Name)
	}

	if req.Name != "" {
		name := normalizeName(req.Name)
		if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != event.ID && existing.IsActive {
			return nil, apierror.Conflict("ya existe un evento activo con el nombre %q", name)
		}
		event.Name = name
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, apierror.Validation("la fecha de fin no puede ser anterior a la de inicio")
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, err
	}
	return eventToResponse(event), nil
}

func (s *eventService) Activate(ctx context.Context, id uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("evento %s no encontrado", id)
	}
	if event.IsClosed {
		return apierror.InvalidState("el evento %q está cerrado y no puede reactivarse", event.Name)
	}
	event.IsActive = true
	return s.repo.Save(ctx, event)
}

func (s *eventService) Deactivate(ctx context.Context, id uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("evento %s no encontrado", id)
	}
	event.IsActive = false
	return s.repo.Save(ctx, event)
}

// Close is terminal: a closed event rejects every later mutation, including
// re-activation.
func (s *eventService) Close(ctx context.Context, id uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("evento %s no encontrado", id)
	}
	if event.IsClosed {
		return apierror.InvalidState("el evento %q ya está cerrado", event.Name)
	}
	event.IsClosed = true
	event.IsActive = false
	return s.repo.Save(ctx, event)
}

func (s *eventService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.Deactivate(ctx, id)
}

func eventToResponse(e *model.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		IsActive:  e.IsActive,
		IsClosed:  e.IsClosed,
	}
}

func eventsToResponses(events []model.Event) []dto.EventResponse {
	resp := make([]dto.EventResponse, len(events))
	for i := range events {
		resp[i] = *eventToResponse(&events[i])
	}
	return resp
}
