package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/shenikar/campus_alert_system/internal/service"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

const incidentColumns = `
	id,
	kind,
	area,
	description,
	location,
	urgency,
	status,
	reporter_subject_id,
	reporter_email,
	created_at,
	history
`

// scanIncident читает одну строку выборки в модель инцидента
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var history []byte
	err := row.Scan(
		&incident.ID,
		&incident.Kind,
		&incident.Area,
		&incident.Description,
		&incident.Location,
		&incident.Urgency,
		&incident.Status,
		&incident.ReporterSubjectID,
		&incident.ReporterEmail,
		&incident.CreatedAt,
		&history,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &incident.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident history: %w", err)
	}
	return incident, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	history, err := json.Marshal(incident.History)
	if err != nil {
		return fmt.Errorf("failed to marshal incident history: %w", err)
	}

	query := `
		INSERT INTO incidents (id, kind, area, description, location, urgency, status, reporter_subject_id, reporter_email, created_at, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.db.Exec(ctx, query,
		incident.ID,
		incident.Kind,
		incident.Area,
		incident.Description,
		incident.Location,
		incident.Urgency,
		incident.Status,
		incident.ReporterSubjectID,
		incident.ReporterEmail,
		incident.CreatedAt,
		history,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его идентификатору.
// Отсутствие записи отличимо от ошибки хранилища: первое - service.ErrNotFound.
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE id = $1;`, incidentColumns)

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// UpdateStatus записывает новый статус и историю инцидента
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id string, status models.Status, history []models.HistoryEntry) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal incident history: %w", err)
	}

	query := `
		UPDATE incidents SET
			status = $1,
			history = $2
		WHERE id = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, payload, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// UpdateUrgency записывает новую срочность и историю инцидента
func (r *IncidentRepository) UpdateUrgency(ctx context.Context, id string, urgency models.Urgency, history []models.HistoryEntry) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal incident history: %w", err)
	}

	query := `
		UPDATE incidents SET
			urgency = $1,
			history = $2
		WHERE id = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, urgency, payload, id)
	if err != nil {
		return fmt.Errorf("failed to update incident urgency: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// listIncidents выполняет выборку со списком инцидентов
func (r *IncidentRepository) listIncidents(ctx context.Context, query string, args ...any) ([]*models.Incident, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// ListByReporter возвращает инциденты одного репортера через индекс по
// reporter_subject_id
func (r *IncidentRepository) ListByReporter(ctx context.Context, subjectID string) ([]*models.Incident, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents
		WHERE reporter_subject_id = $1
		ORDER BY created_at DESC;
	`, incidentColumns)

	incidents, err := r.listIncidents(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by reporter: %w", err)
	}
	return incidents, nil
}

// ListAll возвращает все инциденты, свежие первыми
func (r *IncidentRepository) ListAll(ctx context.Context) ([]*models.Incident, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents
		ORDER BY created_at DESC;
	`, incidentColumns)

	incidents, err := r.listIncidents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return incidents, nil
}

// ListUnresolved возвращает инциденты вне терминальных статусов
func (r *IncidentRepository) ListUnresolved(ctx context.Context) ([]*models.Incident, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents
		WHERE status NOT IN ('resolved', 'cancelled')
		ORDER BY created_at;
	`, incidentColumns)

	incidents, err := r.listIncidents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved incidents: %w", err)
	}
	return incidents, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Устанавливаем срок жизни кэша, например, 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id string) error {
	key := fmt.Sprintf("incident:%s", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
