package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shenikar/campus_alert_system/internal/config"
	"github.com/shenikar/campus_alert_system/internal/models"
	notifiermocks "github.com/shenikar/campus_alert_system/internal/notifier/mocks"
	"github.com/shenikar/campus_alert_system/internal/policy"
	"github.com/shenikar/campus_alert_system/internal/service"
	"github.com/shenikar/campus_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService - хелпер для создания сервиса с моками
func newTestIncidentService(t *testing.T) (service.IncidentService, *mocks.MockIncidentRepository, *notifiermocks.MockEventDispatcher) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIncidentRepository(ctrl)
	dispatcher := notifiermocks.NewMockEventDispatcher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // отключаем вывод логов в тестах

	cfg := &config.Config{
		EscalationLowToMediumMin:    240,
		EscalationMediumToHighMin:   120,
		EscalationHighToCriticalMin: 60,
	}

	svc := service.NewIncidentService(repo, logger, cfg, dispatcher)
	return svc, repo, dispatcher
}

func studentClaims() models.Claims {
	return models.Claims{
		SubjectID: "USR_student",
		Email:     "student@campus.edu",
		Role:      models.RoleStudent,
	}
}

func TestCreateIncident_Success(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	claims := studentClaims()
	input := service.CreateIncidentInput{
		Kind:        models.KindMedicalEmergency,
		Description: "student fainted in the library",
		Location:    "library, 2nd floor",
		Urgency:     models.UrgencyHigh,
		Area:        "  Enfermeria ",
	}

	// Ожидания
	var stored *models.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, incident *models.Incident) error {
			stored = incident
			return nil
		}).
		Times(1)
	dispatcher.EXPECT().IncidentCreated(gomock.Any()).Times(1)

	// Действие
	incident, err := svc.CreateIncident(context.Background(), claims, input)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, incident)
	assert.Same(t, stored, incident)
	assert.True(t, strings.HasPrefix(incident.ID, "INC_"))
	assert.Len(t, incident.ID, len("INC_")+6)
	assert.Equal(t, models.StatusPending, incident.Status)
	assert.Equal(t, "enfermeria", incident.Area)
	assert.Equal(t, claims.SubjectID, incident.ReporterSubjectID)
	assert.Equal(t, claims.Email, incident.ReporterEmail)
	require.Len(t, incident.History, 1)
	assert.Equal(t, "created", incident.History[0].Action)
	assert.Equal(t, claims.Email, incident.History[0].Actor)
}

func TestCreateIncident_DefaultArea(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	input := service.CreateIncidentInput{
		Kind:        models.KindInfrastructure,
		Description: "broken window",
		Location:    "building C",
		Urgency:     models.UrgencyLow,
	}

	// Ожидания
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	dispatcher.EXPECT().IncidentCreated(gomock.Any()).Times(1)

	// Действие
	incident, err := svc.CreateIncident(context.Background(), studentClaims(), input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.DefaultArea, incident.Area)
}

func TestCreateIncident_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input service.CreateIncidentInput
	}{
		{"missing description", service.CreateIncidentInput{Kind: models.KindSecurity, Location: "gate", Urgency: models.UrgencyLow}},
		{"missing location", service.CreateIncidentInput{Kind: models.KindSecurity, Description: "theft", Urgency: models.UrgencyLow}},
		{"unknown kind", service.CreateIncidentInput{Kind: "fire", Description: "x", Location: "y", Urgency: models.UrgencyLow}},
		{"unknown urgency", service.CreateIncidentInput{Kind: models.KindSecurity, Description: "x", Location: "y", Urgency: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Репозиторий и диспетчер не должны вызываться вовсе
			svc, _, _ := newTestIncidentService(t)

			incident, err := svc.CreateIncident(context.Background(), studentClaims(), tt.input)

			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Nil(t, incident)
		})
	}
}

func TestCreateIncident_RepositoryError(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	input := service.CreateIncidentInput{
		Kind:        models.KindOther,
		Description: "x",
		Location:    "y",
		Urgency:     models.UrgencyLow,
	}

	// Ожидания: рассылка не запускается, если запись не зафиксирована
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(1)

	// Действие
	incident, err := svc.CreateIncident(context.Background(), studentClaims(), input)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
}

func TestGetIncident_CacheHit(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := studentClaims()
	cached := &models.Incident{ID: "INC_aaa111", Area: "general", Status: models.StatusPending, ReporterSubjectID: claims.SubjectID}

	// Ожидания: при попадании в кеш база не трогается
	repo.EXPECT().GetIncidentFromCache(gomock.Any(), "INC_aaa111").Return(cached, nil).Times(1)

	// Действие
	incident, err := svc.GetIncident(context.Background(), claims, "INC_aaa111")

	// Проверки
	require.NoError(t, err)
	assert.Same(t, cached, incident)
}

func TestGetIncident_CacheMissThenStore(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := studentClaims()
	fromDB := &models.Incident{ID: "INC_bbb222", Area: "general", Status: models.StatusPending, ReporterSubjectID: claims.SubjectID}

	// Ожидания
	repo.EXPECT().GetIncidentFromCache(gomock.Any(), "INC_bbb222").Return(nil, nil).Times(1)
	repo.EXPECT().GetByID(gomock.Any(), "INC_bbb222").Return(fromDB, nil).Times(1)
	repo.EXPECT().SetIncidentCache(gomock.Any(), fromDB).Return(nil).Times(1)

	// Действие
	incident, err := svc.GetIncident(context.Background(), claims, "INC_bbb222")

	// Проверки
	require.NoError(t, err)
	assert.Same(t, fromDB, incident)
}

func TestGetIncident_NotVisible(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	foreign := &models.Incident{ID: "INC_ccc333", Area: "general", Status: models.StatusPending, ReporterSubjectID: "USR_other"}

	// Ожидания
	repo.EXPECT().GetIncidentFromCache(gomock.Any(), "INC_ccc333").Return(foreign, nil).Times(1)

	// Действие
	incident, err := svc.GetIncident(context.Background(), studentClaims(), "INC_ccc333")

	// Проверки
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Nil(t, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)

	// Ожидания
	repo.EXPECT().GetIncidentFromCache(gomock.Any(), "INC_nope").Return(nil, nil).Times(1)
	repo.EXPECT().GetByID(gomock.Any(), "INC_nope").Return(nil, service.ErrNotFound).Times(1)

	// Действие
	incident, err := svc.GetIncident(context.Background(), studentClaims(), "INC_nope")

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, incident)
}

func TestListIncidents_StudentUsesReporterIndex(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := studentClaims()
	own := []*models.Incident{
		{ID: "INC_one111", Area: "general", ReporterSubjectID: claims.SubjectID},
	}

	// Ожидания: полный скан не используется, пока индекс работает
	repo.EXPECT().ListByReporter(gomock.Any(), claims.SubjectID).Return(own, nil).Times(1)

	// Действие
	incidents, err := svc.ListIncidents(context.Background(), claims)

	// Проверки
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC_one111", incidents[0].ID)
}

func TestListIncidents_StudentFallbackScanSameResult(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := studentClaims()
	all := []*models.Incident{
		{ID: "INC_own111", Area: "general", ReporterSubjectID: claims.SubjectID},
		{ID: "INC_for222", Area: "general", ReporterSubjectID: "USR_other"},
	}

	// Ожидания: отказ индекса переключает на полный скан с пост-фильтром
	repo.EXPECT().ListByReporter(gomock.Any(), claims.SubjectID).Return(nil, errors.New("index unavailable")).Times(1)
	repo.EXPECT().ListAll(gomock.Any()).Return(all, nil).Times(1)

	// Действие
	incidents, err := svc.ListIncidents(context.Background(), claims)

	// Проверки
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC_own111", incidents[0].ID)
}

func TestListIncidents_AuthorityFilteredByArea(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := models.Claims{SubjectID: "USR_aut", Email: "aut@campus.edu", Role: models.RoleAuthority, Area: "seguridad"}
	all := []*models.Incident{
		{ID: "INC_sec111", Area: "seguridad"},
		{ID: "INC_med222", Area: "enfermeria"},
	}

	// Ожидания
	repo.EXPECT().ListAll(gomock.Any()).Return(all, nil).Times(1)

	// Действие
	incidents, err := svc.ListIncidents(context.Background(), claims)

	// Проверки
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC_sec111", incidents[0].ID)
}

func TestListIncidents_AuthorityWithoutArea(t *testing.T) {
	// Подготовка
	svc, _, _ := newTestIncidentService(t)
	claims := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority}

	// Действие
	incidents, err := svc.ListIncidents(context.Background(), claims)

	// Проверки
	assert.ErrorIs(t, err, policy.ErrAreaRequired)
	assert.Nil(t, incidents)
}

func TestUpdateStatus_Success(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	claims := models.Claims{SubjectID: "USR_adm", Email: "admin@campus.edu", Role: models.RoleAdministrative}
	existing := &models.Incident{
		ID:     "INC_upd111",
		Area:   "general",
		Status: models.StatusPending,
		History: []models.HistoryEntry{
			{Action: "created", At: time.Now().UTC(), Actor: "student@campus.edu"},
		},
	}

	// Ожидания
	repo.EXPECT().GetByID(gomock.Any(), "INC_upd111").Return(existing, nil).Times(1)
	repo.EXPECT().
		UpdateStatus(gomock.Any(), "INC_upd111", models.StatusInProgress, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ models.Status, history []models.HistoryEntry) error {
			require.Len(t, history, 2)
			assert.Equal(t, "status changed to in_progress", history[1].Action)
			assert.Equal(t, claims.Email, history[1].Actor)
			return nil
		}).
		Times(1)
	repo.EXPECT().InvalidateIncidentCache(gomock.Any(), "INC_upd111").Return(nil).Times(1)
	dispatcher.EXPECT().StatusChanged(existing, models.StatusPending).Times(1)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), claims, "INC_upd111", models.StatusInProgress)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, incident.Status)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	// Подготовка
	svc, _, _ := newTestIncidentService(t)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), studentClaims(), "INC_any", models.Status("archived"))

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
	assert.Nil(t, incident)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)

	// Ожидания
	repo.EXPECT().GetByID(gomock.Any(), "INC_nope").Return(nil, service.ErrNotFound).Times(1)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), studentClaims(), "INC_nope", models.StatusCancelled)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, incident)
}

func TestUpdateStatus_ForbiddenForStudent(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	existing := &models.Incident{ID: "INC_frb111", Area: "general", Status: models.StatusPending, ReporterSubjectID: "USR_student"}

	// Ожидания: запись и рассылка не происходят
	repo.EXPECT().GetByID(gomock.Any(), "INC_frb111").Return(existing, nil).Times(1)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), studentClaims(), "INC_frb111", models.StatusInProgress)

	// Проверки
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Nil(t, incident)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	// Подготовка
	svc, repo, _ := newTestIncidentService(t)
	claims := models.Claims{SubjectID: "USR_adm", Role: models.RoleAdministrative}
	existing := &models.Incident{ID: "INC_trn111", Area: "general", Status: models.StatusPending}

	// Ожидания: pending нельзя закрыть, минуя in_progress
	repo.EXPECT().GetByID(gomock.Any(), "INC_trn111").Return(existing, nil).Times(1)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), claims, "INC_trn111", models.StatusResolved)

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assert.Nil(t, incident)
}

func TestUpdateStatus_CancelByReporter(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	claims := studentClaims()
	existing := &models.Incident{ID: "INC_cnl111", Area: "general", Status: models.StatusPending, ReporterSubjectID: "USR_other"}

	// Ожидания
	repo.EXPECT().GetByID(gomock.Any(), "INC_cnl111").Return(existing, nil).Times(1)
	repo.EXPECT().UpdateStatus(gomock.Any(), "INC_cnl111", models.StatusCancelled, gomock.Any()).Return(nil).Times(1)
	repo.EXPECT().InvalidateIncidentCache(gomock.Any(), "INC_cnl111").Return(nil).Times(1)
	dispatcher.EXPECT().StatusChanged(existing, models.StatusPending).Times(1)

	// Действие
	incident, err := svc.UpdateStatus(context.Background(), claims, "INC_cnl111", models.StatusCancelled)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, incident.Status)
}

func TestEscalateStale(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	now := time.Now().UTC()
	stale := &models.Incident{
		ID:        "INC_old111",
		Area:      "general",
		Status:    models.StatusPending,
		Urgency:   models.UrgencyMedium,
		CreatedAt: now.Add(-3 * time.Hour),
	}
	fresh := &models.Incident{
		ID:        "INC_new222",
		Area:      "general",
		Status:    models.StatusPending,
		Urgency:   models.UrgencyMedium,
		CreatedAt: now.Add(-30 * time.Minute),
	}
	topped := &models.Incident{
		ID:        "INC_top333",
		Area:      "general",
		Status:    models.StatusInProgress,
		Urgency:   models.UrgencyCritical,
		CreatedAt: now.Add(-24 * time.Hour),
	}

	// Ожидания: повышается только старый инцидент, critical дальше не растет
	repo.EXPECT().ListUnresolved(gomock.Any()).Return([]*models.Incident{stale, fresh, topped}, nil).Times(1)
	repo.EXPECT().
		UpdateUrgency(gomock.Any(), "INC_old111", models.UrgencyHigh, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ models.Urgency, history []models.HistoryEntry) error {
			require.Len(t, history, 1)
			assert.Equal(t, "urgency escalated to high", history[0].Action)
			assert.Equal(t, "sla-monitor", history[0].Actor)
			return nil
		}).
		Times(1)
	repo.EXPECT().InvalidateIncidentCache(gomock.Any(), "INC_old111").Return(nil).Times(1)
	dispatcher.EXPECT().UrgencyEscalated(stale, models.UrgencyMedium).Times(1)

	// Действие
	escalated, err := svc.EscalateStale(context.Background(), now)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, escalated)
	assert.Equal(t, models.UrgencyHigh, stale.Urgency)
}

func TestEscalateStale_UpdateFailureSkipsIncident(t *testing.T) {
	// Подготовка
	svc, repo, dispatcher := newTestIncidentService(t)
	now := time.Now().UTC()
	first := &models.Incident{
		ID:        "INC_aaa111",
		Area:      "general",
		Status:    models.StatusPending,
		Urgency:   models.UrgencyHigh,
		CreatedAt: now.Add(-2 * time.Hour),
	}
	second := &models.Incident{
		ID:        "INC_bbb222",
		Area:      "general",
		Status:    models.StatusPending,
		Urgency:   models.UrgencyHigh,
		CreatedAt: now.Add(-2 * time.Hour),
	}

	// Ожидания: сбой записи одного инцидента не прерывает проход
	repo.EXPECT().ListUnresolved(gomock.Any()).Return([]*models.Incident{first, second}, nil).Times(1)
	repo.EXPECT().UpdateUrgency(gomock.Any(), "INC_aaa111", models.UrgencyCritical, gomock.Any()).Return(errors.New("db down")).Times(1)
	repo.EXPECT().UpdateUrgency(gomock.Any(), "INC_bbb222", models.UrgencyCritical, gomock.Any()).Return(nil).Times(1)
	repo.EXPECT().InvalidateIncidentCache(gomock.Any(), "INC_bbb222").Return(nil).Times(1)
	dispatcher.EXPECT().UrgencyEscalated(second, models.UrgencyHigh).Times(1)

	// Действие
	escalated, err := svc.EscalateStale(context.Background(), now)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, escalated)
}
