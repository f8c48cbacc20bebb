package policy

import (
	"testing"

	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentWith(area, reporter string) *models.Incident {
	return &models.Incident{
		ID:                "INC_test01",
		Kind:              models.KindSecurity,
		Area:              area,
		Status:            models.StatusPending,
		ReporterSubjectID: reporter,
	}
}

func TestVisible_Student_OwnIncidentsOnly(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_aaa", Role: models.RoleStudent}

	assert.True(t, Visible(claims, incidentWith("general", "USR_aaa")))
	assert.False(t, Visible(claims, incidentWith("general", "USR_bbb")))
}

func TestVisible_Authority_AreaMatchCaseInsensitive(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority, Area: "Enfermeria"}

	assert.True(t, Visible(claims, incidentWith("enfermeria", "USR_x")))
	assert.True(t, Visible(claims, incidentWith("ENFERMERIA", "USR_x")))
	assert.False(t, Visible(claims, incidentWith("seguridad", "USR_x")))
}

func TestVisible_AuthorityWithoutArea_SeesNothing(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority}

	assert.False(t, Visible(claims, incidentWith("general", "USR_x")))
}

func TestVisible_AdministrativeAndSecurity_SeeEverything(t *testing.T) {
	incident := incidentWith("infraestructura", "USR_x")

	assert.True(t, Visible(models.Claims{SubjectID: "USR_adm", Role: models.RoleAdministrative}, incident))
	assert.True(t, Visible(models.Claims{SubjectID: "USR_sec", Role: models.RoleSecurity}, incident))
}

func TestVisible_UnknownRole_SeesNothing(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_x", Role: models.Role("visitor")}

	assert.False(t, Visible(claims, incidentWith("general", "USR_x")))
}

func TestCanList(t *testing.T) {
	tests := []struct {
		name    string
		claims  models.Claims
		wantErr error
	}{
		{"student", models.Claims{Role: models.RoleStudent}, nil},
		{"security", models.Claims{Role: models.RoleSecurity}, nil},
		{"administrative", models.Claims{Role: models.RoleAdministrative}, nil},
		{"authority with area", models.Claims{Role: models.RoleAuthority, Area: "seguridad"}, nil},
		// Отсутствие зоны у authority - ошибка конфигурации, а не пустой список
		{"authority without area", models.Claims{Role: models.RoleAuthority}, ErrAreaRequired},
		{"unknown role", models.Claims{Role: models.Role("visitor")}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanList(tt.claims)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFilterVisible_StudentSubset(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_aaa", Role: models.RoleStudent}
	incidents := []*models.Incident{
		incidentWith("general", "USR_aaa"),
		incidentWith("general", "USR_bbb"),
		incidentWith("seguridad", "USR_aaa"),
	}

	visible := FilterVisible(claims, incidents)

	require.Len(t, visible, 2)
	for _, inc := range visible {
		assert.Equal(t, "USR_aaa", inc.ReporterSubjectID)
	}
}

func TestFilterVisible_AuthorityExactArea(t *testing.T) {
	claims := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority, Area: "enfermeria"}
	incidents := []*models.Incident{
		incidentWith("enfermeria", "USR_a"),
		incidentWith("Enfermeria", "USR_b"),
		incidentWith("infraestructura", "USR_c"),
	}

	visible := FilterVisible(claims, incidents)

	require.Len(t, visible, 2)
	for _, inc := range visible {
		assert.NotEqual(t, "infraestructura", inc.Area)
	}
}

func TestCanSetStatus_AnyoneMayCancelNonTerminal(t *testing.T) {
	student := models.Claims{SubjectID: "USR_st", Role: models.RoleStudent}

	pending := incidentWith("general", "USR_other")
	pending.Status = models.StatusPending
	assert.NoError(t, CanSetStatus(student, pending, models.StatusCancelled))

	inProgress := incidentWith("general", "USR_other")
	inProgress.Status = models.StatusInProgress
	assert.NoError(t, CanSetStatus(student, inProgress, models.StatusCancelled))
}

func TestCanSetStatus_CancelTerminalRejected(t *testing.T) {
	admin := models.Claims{SubjectID: "USR_adm", Role: models.RoleAdministrative}

	resolved := incidentWith("general", "USR_x")
	resolved.Status = models.StatusResolved
	assert.ErrorIs(t, CanSetStatus(admin, resolved, models.StatusCancelled), ErrForbidden)

	cancelled := incidentWith("general", "USR_x")
	cancelled.Status = models.StatusCancelled
	assert.ErrorIs(t, CanSetStatus(admin, cancelled, models.StatusCancelled), ErrForbidden)
}

func TestCanSetStatus_StudentNonCancelForbidden(t *testing.T) {
	student := models.Claims{SubjectID: "USR_st", Role: models.RoleStudent}
	incident := incidentWith("general", "USR_st")

	for _, target := range []models.Status{models.StatusInProgress, models.StatusResolved} {
		assert.ErrorIs(t, CanSetStatus(student, incident, target), ErrForbidden)
	}
}

func TestCanSetStatus_SecurityNonCancelForbidden(t *testing.T) {
	// security видит все инциденты, но менять статусы не может
	security := models.Claims{SubjectID: "USR_sec", Role: models.RoleSecurity}
	incident := incidentWith("general", "USR_x")

	assert.ErrorIs(t, CanSetStatus(security, incident, models.StatusInProgress), ErrForbidden)
}

func TestCanSetStatus_AuthorityAreaMismatchForbidden(t *testing.T) {
	// Несовпадение зоны закрывает видимость, а значит и мутацию
	authority := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority, Area: "seguridad"}
	incident := incidentWith("infraestructura", "USR_x")
	incident.Status = models.StatusInProgress

	assert.ErrorIs(t, CanSetStatus(authority, incident, models.StatusResolved), ErrForbidden)
}

func TestCanSetStatus_AuthorityAndAdministrativeAllowed(t *testing.T) {
	incident := incidentWith("seguridad", "USR_x")
	incident.Status = models.StatusPending

	authority := models.Claims{SubjectID: "USR_aut", Role: models.RoleAuthority, Area: "seguridad"}
	assert.NoError(t, CanSetStatus(authority, incident, models.StatusInProgress))

	admin := models.Claims{SubjectID: "USR_adm", Role: models.RoleAdministrative}
	assert.NoError(t, CanSetStatus(admin, incident, models.StatusInProgress))
}
