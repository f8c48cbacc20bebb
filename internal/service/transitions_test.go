package service

import (
	"testing"

	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[models.Status][]models.Status{
		models.StatusPending:    {models.StatusInProgress, models.StatusCancelled},
		models.StatusInProgress: {models.StatusResolved, models.StatusCancelled},
		models.StatusResolved:   {},
		models.StatusCancelled:  {},
	}

	all := []models.Status{models.StatusPending, models.StatusInProgress, models.StatusResolved, models.StatusCancelled}
	for from, targets := range allowed {
		permitted := make(map[models.Status]bool, len(targets))
		for _, to := range targets {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], canTransition(from, to), "%s -> %s", from, to)
		}
	}
}
