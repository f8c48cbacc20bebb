package v1

import (
	"time"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=medical_emergency security infrastructure other"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Urgency     string `json:"urgency" validate:"required,oneof=low medium high critical"`
	Area        string `json:"area,omitempty"`
}

// UpdateStatusRequest DTO для смены статуса инцидента
// @Description DTO для смены статуса инцидента
type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
}

// HistoryEntryResponse - одна запись истории инцидента в ответе
type HistoryEntryResponse struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	IncidentID        string                 `json:"incident_id"`
	Kind              string                 `json:"kind"`
	Area              string                 `json:"area"`
	Description       string                 `json:"description"`
	Location          string                 `json:"location"`
	Urgency           string                 `json:"urgency"`
	Status            string                 `json:"status"`
	ReporterSubjectID string                 `json:"reporter_subject_id"`
	ReporterEmail     string                 `json:"reporter_email"`
	CreatedAt         time.Time              `json:"created_at"`
	History           []HistoryEntryResponse `json:"history"`
}

// CreateIncidentResponse - конверт успешного создания инцидента
type CreateIncidentResponse struct {
	OK         bool   `json:"ok"`
	IncidentID string `json:"incident_id"`
	Status     string `json:"status"`
}

// ListIncidentsResponse - конверт списка инцидентов
type ListIncidentsResponse struct {
	OK     bool                `json:"ok"`
	Items  []*IncidentResponse `json:"items"`
	Filter string              `json:"filter"`
}

// GetIncidentResponse - конверт одного инцидента
type GetIncidentResponse struct {
	OK       bool              `json:"ok"`
	Incident *IncidentResponse `json:"incident"`
}

// UpdateStatusResponse - конверт успешной смены статуса
type UpdateStatusResponse struct {
	OK         bool   `json:"ok"`
	IncidentID string `json:"incident_id"`
	Status     string `json:"status"`
}

// ErrorResponse - конверт ошибки
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
