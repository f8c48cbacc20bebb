package models

import (
	"time"
)

// Status - статус жизненного цикла инцидента
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusCancelled  Status = "cancelled"
)

// Kind - категория инцидента
type Kind string

const (
	KindMedicalEmergency Kind = "medical_emergency"
	KindSecurity         Kind = "security"
	KindInfrastructure   Kind = "infrastructure"
	KindOther            Kind = "other"
)

// Urgency - срочность инцидента
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// DefaultArea используется, если при создании инцидента зона не указана
const DefaultArea = "general"

// HistoryEntry - запись аудита в истории инцидента
type HistoryEntry struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor,omitempty"`
}

// Incident - зарегистрированный инцидент кампуса
type Incident struct {
	ID                string         `json:"incident_id"`
	Kind              Kind           `json:"kind"`
	Area              string         `json:"area"`
	Description       string         `json:"description"`
	Location          string         `json:"location"`
	Urgency           Urgency        `json:"urgency"`
	Status            Status         `json:"status"`
	ReporterSubjectID string         `json:"reporter_subject_id"`
	ReporterEmail     string         `json:"reporter_email"`
	CreatedAt         time.Time      `json:"created_at"`
	History           []HistoryEntry `json:"history"`
}

// Terminal сообщает, допускает ли статус дальнейшие переходы
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// ValidStatus проверяет, что значение является одним из четырех статусов
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// ValidKind проверяет категорию инцидента
func ValidKind(k Kind) bool {
	switch k {
	case KindMedicalEmergency, KindSecurity, KindInfrastructure, KindOther:
		return true
	}
	return false
}

// ValidUrgency проверяет срочность инцидента
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}
