package dto

import "time"

type CreateEventRequest struct {
	Name      string    `json:"name"       validate:"required,min=3,max=100"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date"   validate:"required"`
}

type UpdateEventRequest struct {
	Name      string     `json:"name"       validate:"omitempty,min=3,max=100"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	IsClosed  bool      `json:"is_closed"`
}
