package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/campus_alert_system/internal/config"
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/shenikar/campus_alert_system/internal/notifier"
	"github.com/shenikar/campus_alert_system/internal/policy"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, history []models.HistoryEntry) error
	UpdateUrgency(ctx context.Context, id string, urgency models.Urgency, history []models.HistoryEntry) error
	ListByReporter(ctx context.Context, subjectID string) ([]*models.Incident, error)
	ListAll(ctx context.Context) ([]*models.Incident, error)
	ListUnresolved(ctx context.Context) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id string) error
}

// CreateIncidentInput - данные нового отчета об инциденте
type CreateIncidentInput struct {
	Kind        models.Kind
	Description string
	Location    string
	Urgency     models.Urgency
	// Area может быть объявлена клиентом; иначе подставляется зона по умолчанию
	Area string
}

// IncidentService определяет контракт для бизнес-логики жизненного цикла инцидентов
type IncidentService interface {
	CreateIncident(ctx context.Context, claims models.Claims, input CreateIncidentInput) (*models.Incident, error)
	GetIncident(ctx context.Context, claims models.Claims, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context, claims models.Claims) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, claims models.Claims, id string, newStatus models.Status) (*models.Incident, error)
	EscalateStale(ctx context.Context, now time.Time) (int, error)
}

type incidentService struct {
	repo       IncidentRepository
	logger     *logrus.Logger
	cfg        *config.Config
	dispatcher notifier.EventDispatcher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, dispatcher notifier.EventDispatcher) IncidentService {
	return &incidentService{
		repo:       repo,
		logger:     logger,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// newIncidentID генерирует короткий человекочитаемый идентификатор инцидента
func newIncidentID() string {
	return "INC_" + uuid.NewString()[:6]
}

// CreateIncident создает инцидент в статусе pending и запускает рассылку уведомлений
func (s *incidentService) CreateIncident(ctx context.Context, claims models.Claims, input CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "CreateIncident",
		"reporter": claims.SubjectID,
	})
	log.Info("Attempting to create a new incident")

	if err := validateCreateInput(input); err != nil {
		log.WithError(err).Warn("Incident creation rejected by validation")
		return nil, err
	}

	area := strings.ToLower(strings.TrimSpace(input.Area))
	if area == "" {
		area = models.DefaultArea
	}

	now := time.Now().UTC()
	incident := &models.Incident{
		ID:                newIncidentID(),
		Kind:              input.Kind,
		Area:              area,
		Description:       input.Description,
		Location:          input.Location,
		Urgency:           input.Urgency,
		Status:            models.StatusPending,
		ReporterSubjectID: claims.SubjectID,
		ReporterEmail:     claims.Email,
		CreatedAt:         now,
		History: []models.HistoryEntry{
			{Action: "created", At: now, Actor: claims.Email},
		},
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")

	// Рассылка идет в фоне и не задерживает ответ репортеру
	s.dispatcher.IncidentCreated(incident)
	return incident, nil
}

// validateCreateInput проверяет обязательные поля нового отчета
func validateCreateInput(input CreateIncidentInput) error {
	if input.Kind == "" || input.Description == "" || input.Location == "" || input.Urgency == "" {
		return fmt.Errorf("%w: kind, description, location and urgency are required", ErrValidation)
	}
	if !models.ValidKind(input.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrValidation, input.Kind)
	}
	if !models.ValidUrgency(input.Urgency) {
		return fmt.Errorf("%w: unknown urgency %q", ErrValidation, input.Urgency)
	}
	return nil
}

// GetIncident возвращает один инцидент, если он видим обладателю claims
func (s *incidentService) GetIncident(ctx context.Context, claims models.Claims, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Incident cache lookup failed")
	}
	if incident == nil {
		incident, err = s.repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to get incident from repository")
			return nil, err
		}
		if cacheErr := s.repo.SetIncidentCache(ctx, incident); cacheErr != nil {
			log.WithError(cacheErr).Warn("Failed to cache incident")
		}
	}

	if !policy.Visible(claims, incident) {
		return nil, policy.ErrForbidden
	}
	return incident, nil
}

// ListIncidents возвращает инциденты, видимые обладателю claims.
// Для студентов сначала используется выборка по индексу репортера; при ее
// отказе - полное сканирование. Оба пути проходят через один и тот же
// пост-фильтр видимости, поэтому запасной путь меняет только стоимость
// выборки, но не результат.
func (s *incidentService) ListIncidents(ctx context.Context, claims models.Claims) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"role":    claims.Role,
	})
	log.Info("Listing incidents")

	if err := policy.CanList(claims); err != nil {
		log.WithError(err).Warn("Listing rejected by visibility policy")
		return nil, err
	}

	var (
		incidents []*models.Incident
		err       error
	)
	if claims.Role == models.RoleStudent {
		incidents, err = s.repo.ListByReporter(ctx, claims.SubjectID)
		if err != nil {
			log.WithError(err).Warn("Reporter index lookup failed, falling back to full scan")
			incidents, err = s.repo.ListAll(ctx)
		}
	} else {
		incidents, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	visible := policy.FilterVisible(claims, incidents)
	log.WithField("count", len(visible)).Info("Incidents listed successfully")
	return visible, nil
}

// UpdateStatus выполняет переход статуса и запускает рассылку уведомлений
func (s *incidentService) UpdateStatus(ctx context.Context, claims models.Claims, id string, newStatus models.Status) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"new_status":  newStatus,
	})
	log.Info("Attempting to update incident status")

	if !models.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return nil, err
	}

	if err := policy.CanSetStatus(claims, incident, newStatus); err != nil {
		log.WithError(err).Warn("Status update rejected by mutation policy")
		return nil, err
	}

	if !canTransition(incident.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, incident.Status, newStatus)
	}

	previous := incident.Status
	incident.History = append(incident.History, models.HistoryEntry{
		Action: fmt.Sprintf("status changed to %s", newStatus),
		At:     time.Now().UTC(),
		Actor:  claims.Email,
	})
	incident.Status = newStatus

	if err := s.repo.UpdateStatus(ctx, id, newStatus, incident.History); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return nil, fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.WithField("previous_status", previous).Info("Incident status updated successfully")

	// Запись уже зафиксирована, сбой рассылки на нее не влияет
	s.dispatcher.StatusChanged(incident, previous)
	return incident, nil
}

// EscalateStale повышает срочность давно открытых инцидентов.
// Возвращает число эскалированных инцидентов.
func (s *incidentService) EscalateStale(ctx context.Context, now time.Time) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "EscalateStale",
	})

	incidents, err := s.repo.ListUnresolved(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list unresolved incidents")
		return 0, fmt.Errorf("service: could not list unresolved incidents: %w", err)
	}

	escalated := 0
	for _, incident := range incidents {
		next, ok := s.nextUrgency(incident.Urgency, now.Sub(incident.CreatedAt))
		if !ok {
			continue
		}

		previous := incident.Urgency
		incident.History = append(incident.History, models.HistoryEntry{
			Action: fmt.Sprintf("urgency escalated to %s", next),
			At:     now,
			Actor:  "sla-monitor",
		})
		incident.Urgency = next

		if err := s.repo.UpdateUrgency(ctx, incident.ID, next, incident.History); err != nil {
			log.WithError(err).WithField("incident_id", incident.ID).Error("Failed to escalate incident urgency")
			continue
		}
		if err := s.repo.InvalidateIncidentCache(ctx, incident.ID); err != nil {
			log.WithError(err).WithField("incident_id", incident.ID).Warn("Failed to invalidate incident cache")
		}

		log.WithFields(logrus.Fields{
			"incident_id":      incident.ID,
			"previous_urgency": previous,
			"urgency":          next,
		}).Info("Incident urgency escalated")

		s.dispatcher.UrgencyEscalated(incident, previous)
		escalated++
	}
	return escalated, nil
}

// nextUrgency возвращает новую срочность для инцидента данного возраста
func (s *incidentService) nextUrgency(current models.Urgency, age time.Duration) (models.Urgency, bool) {
	minutes := int(age.Minutes())
	switch current {
	case models.UrgencyLow:
		if minutes >= s.cfg.EscalationLowToMediumMin {
			return models.UrgencyMedium, true
		}
	case models.UrgencyMedium:
		if minutes >= s.cfg.EscalationMediumToHighMin {
			return models.UrgencyHigh, true
		}
	case models.UrgencyHigh:
		if minutes >= s.cfg.EscalationHighToCriticalMin {
			return models.UrgencyCritical, true
		}
	}
	return current, false
}
