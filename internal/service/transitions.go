package service

import "github.com/shenikar/campus_alert_system/internal/models"

// Граф жизненного цикла инцидента. Терминальные статусы не имеют исходящих
// переходов: из resolved и cancelled выхода нет.
var transitions = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusResolved, models.StatusCancelled},
	models.StatusResolved:   {},
	models.StatusCancelled:  {},
}

// canTransition сообщает, разрешен ли переход from -> to
func canTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
