package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/campus_alert_system/internal/config"
	"github.com/shenikar/campus_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Escalator периодически повышает срочность давно открытых инцидентов.
// Сами правила эскалации живут в сервисе; здесь только расписание.
type Escalator struct {
	svc    service.IncidentService
	logger *logrus.Logger
	cfg    *config.Config
	cron   *cron.Cron
}

func NewEscalator(svc service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Escalator {
	return &Escalator{
		svc:    svc,
		logger: logger,
		cfg:    cfg,
	}
}

// Start запускает периодическую эскалацию по расписанию из конфигурации
func (e *Escalator) Start() error {
	if !e.cfg.EscalationEnabled {
		e.logger.Info("Urgency escalation is disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %dm", e.cfg.EscalationIntervalMinutes)
	e.cron = cron.New()
	if _, err := e.cron.AddFunc(spec, e.runOnce); err != nil {
		return fmt.Errorf("failed to schedule urgency escalation: %w", err)
	}
	e.cron.Start()
	e.logger.Infof("Urgency escalation scheduled every %d minutes", e.cfg.EscalationIntervalMinutes)
	return nil
}

func (e *Escalator) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	escalated, err := e.svc.EscalateStale(ctx, time.Now().UTC())
	if err != nil {
		e.logger.WithError(err).Error("Urgency escalation run failed")
		return
	}
	if escalated > 0 {
		e.logger.WithField("count", escalated).Info("Urgency escalation run completed")
	}
}

// Stop останавливает расписание и дожидается завершения текущего прогона
func (e *Escalator) Stop(ctx context.Context) error {
	if e.cron == nil {
		return nil
	}
	select {
	case <-e.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
