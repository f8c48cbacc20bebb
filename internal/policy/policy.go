package policy

import (
	"errors"
	"strings"

	"github.com/shenikar/campus_alert_system/internal/models"
)

var (
	// ErrForbidden - роль не дает права на запрошенное действие
	ErrForbidden = errors.New("insufficient permissions")
	// ErrAreaRequired - у authority не задана зона ответственности.
	// Это ошибка конфигурации учетной записи, а не пустая выборка.
	ErrAreaRequired = errors.New("authority account has no area configured")
)

// visibilityRule решает, виден ли инцидент обладателю claims
type visibilityRule func(claims models.Claims, incident *models.Incident) bool

// Таблица видимости: роль -> правило. Добавление роли - одна строка здесь
// плюс проверка в CanList.
var visibilityRules = map[models.Role]visibilityRule{
	models.RoleStudent: func(c models.Claims, inc *models.Incident) bool {
		return inc.ReporterSubjectID == c.SubjectID
	},
	models.RoleAuthority: func(c models.Claims, inc *models.Incident) bool {
		return c.Area != "" && strings.EqualFold(inc.Area, c.Area)
	},
	models.RoleAdministrative: func(c models.Claims, inc *models.Incident) bool {
		return true
	},
	models.RoleSecurity: func(c models.Claims, inc *models.Incident) bool {
		return true
	},
}

// CanList проверяет право роли на чтение списка инцидентов
func CanList(claims models.Claims) error {
	if _, ok := visibilityRules[claims.Role]; !ok {
		return ErrForbidden
	}
	if claims.Role == models.RoleAuthority && claims.Area == "" {
		return ErrAreaRequired
	}
	return nil
}

// Visible сообщает, виден ли конкретный инцидент обладателю claims
func Visible(claims models.Claims, incident *models.Incident) bool {
	rule, ok := visibilityRules[claims.Role]
	if !ok {
		return false
	}
	return rule(claims, incident)
}

// FilterVisible возвращает подмножество инцидентов, видимых обладателю claims.
// Фильтр один и тот же независимо от того, как инциденты были извлечены.
func FilterVisible(claims models.Claims, incidents []*models.Incident) []*models.Incident {
	visible := make([]*models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if Visible(claims, inc) {
			visible = append(visible, inc)
		}
	}
	return visible
}

// CanSetStatus проверяет право на перевод инцидента в целевой статус.
// Отмена доступна любому аутентифицированному пользователю, пока инцидент
// не в терминальном статусе: репортер может отозвать свой отчет, не получая
// более широких прав модерации. Остальные статусы - только authority и
// administrative, и только для видимых им инцидентов: несовпадение зоны у
// authority закрывает и чтение, и мутацию.
func CanSetStatus(claims models.Claims, incident *models.Incident, target models.Status) error {
	if target == models.StatusCancelled {
		if incident.Status.Terminal() {
			return ErrForbidden
		}
		return nil
	}
	if claims.Role != models.RoleAuthority && claims.Role != models.RoleAdministrative {
		return ErrForbidden
	}
	if !Visible(claims, incident) {
		return ErrForbidden
	}
	return nil
}
