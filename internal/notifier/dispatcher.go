package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrConnectionGone - транспорт сообщил, что соединение безвозвратно закрыто.
// Такая ошибка при отправке приводит к удалению записи из реестра.
var ErrConnectionGone = errors.New("push connection gone")

// ConnectionRegistry - реестр активных push-соединений.
// Создание и разрыв соединений - забота транспорта; диспетчер только
// перечисляет их, шлет сообщения и удаляет мертвые записи.
type ConnectionRegistry interface {
	List(ctx context.Context) ([]string, error)
	Send(ctx context.Context, connectionID string, payload []byte) error
	Remove(ctx context.Context, connectionID string) error
}

// BusPublisher публикует уведомление во внешнюю шину сообщений
type BusPublisher interface {
	Publish(ctx context.Context, subject, body string) error
}

// EventDispatcher - контракт рассылки событий жизненного цикла инцидента.
// Вызовы не блокируют вызывающего и никогда не возвращают ошибок: сбои
// доставки логируются и не влияют на уже зафиксированную запись.
type EventDispatcher interface {
	IncidentCreated(incident *models.Incident)
	StatusChanged(incident *models.Incident, previous models.Status)
	UrgencyEscalated(incident *models.Incident, previous models.Urgency)
}

// pushMessage - JSON-нагрузка широковещательного push-уведомления
type pushMessage struct {
	Event           string           `json:"event"`
	IncidentID      string           `json:"incident_id"`
	NewStatus       models.Status    `json:"new_status,omitempty"`
	PreviousStatus  models.Status    `json:"previous_status,omitempty"`
	NewUrgency      models.Urgency   `json:"new_urgency,omitempty"`
	PreviousUrgency models.Urgency   `json:"previous_urgency,omitempty"`
	Incident        *models.Incident `json:"incident,omitempty"`
}

// Dispatcher - двухканальная рассылка уведомлений: широковещание по
// push-соединениям и публикация в шину сообщений. Оба канала работают
// по принципу "не более одного раза", без гарантий порядка.
type Dispatcher struct {
	registry ConnectionRegistry
	bus      BusPublisher
	logger   *logrus.Logger
	timeout  time.Duration

	wg sync.WaitGroup
}

func NewDispatcher(registry ConnectionRegistry, bus BusPublisher, logger *logrus.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		bus:      bus,
		logger:   logger,
		timeout:  timeout,
	}
}

// IncidentCreated рассылает уведомление о новом инциденте
func (d *Dispatcher) IncidentCreated(incident *models.Incident) {
	msg := pushMessage{
		Event:      "incident_created",
		IncidentID: incident.ID,
		Incident:   incident,
	}
	subject, body := createdNotice(incident)
	d.fanOut(msg, subject, body)
}

// StatusChanged рассылает уведомление о смене статуса инцидента
func (d *Dispatcher) StatusChanged(incident *models.Incident, previous models.Status) {
	msg := pushMessage{
		Event:          "status_updated",
		IncidentID:     incident.ID,
		NewStatus:      incident.Status,
		PreviousStatus: previous,
	}
	subject, body := statusNotice(incident, previous)
	d.fanOut(msg, subject, body)
}

// UrgencyEscalated рассылает уведомление об автоматическом повышении срочности
func (d *Dispatcher) UrgencyEscalated(incident *models.Incident, previous models.Urgency) {
	msg := pushMessage{
		Event:           "urgency_escalated",
		IncidentID:      incident.ID,
		NewUrgency:      incident.Urgency,
		PreviousUrgency: previous,
	}
	subject, body := escalationNotice(incident, previous)
	d.fanOut(msg, subject, body)
}

// fanOut запускает отдельную горутину рассылки для одного события.
// Контекст запроса сюда не попадает: рассылка живет дольше ответа клиенту
// и ограничена только собственным таймаутом.
func (d *Dispatcher) fanOut(msg pushMessage, subject, body string) {
	payload, err := json.Marshal(msg)
	if err != nil {
		d.logger.WithError(err).WithField("event", msg.Event).Error("Failed to marshal push payload")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		var channels sync.WaitGroup
		channels.Add(2)
		go func() {
			defer channels.Done()
			d.broadcast(ctx, msg.Event, payload)
		}()
		go func() {
			defer channels.Done()
			d.publish(ctx, msg.Event, subject, body)
		}()
		channels.Wait()
	}()
}

// Wait дожидается завершения всех запущенных рассылок.
// Используется при остановке сервиса и в тестах.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// broadcast шлет нагрузку всем зарегистрированным push-соединениям.
// Отправки независимы: сбой одного соединения не прерывает остальные,
// а сигнал "соединение закрыто" приводит к удалению записи из реестра.
func (d *Dispatcher) broadcast(ctx context.Context, event string, payload []byte) {
	log := d.logger.WithField("event", event)

	connections, err := d.registry.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list push connections")
		return
	}
	if len(connections) == 0 {
		log.Debug("No active push connections")
		return
	}

	var sends sync.WaitGroup
	for _, connectionID := range connections {
		sends.Add(1)
		go func(connectionID string) {
			defer sends.Done()

			err := d.registry.Send(ctx, connectionID, payload)
			if err == nil {
				return
			}
			if errors.Is(err, ErrConnectionGone) {
				log.WithField("connection_id", connectionID).Info("Removing stale push connection")
				if removeErr := d.registry.Remove(ctx, connectionID); removeErr != nil {
					log.WithError(removeErr).WithField("connection_id", connectionID).Warn("Failed to remove stale push connection")
				}
				return
			}
			log.WithError(err).WithField("connection_id", connectionID).Warn("Failed to deliver push notification")
		}(connectionID)
	}
	sends.Wait()
}

// publish отправляет уведомление в шину сообщений
func (d *Dispatcher) publish(ctx context.Context, event, subject, body string) {
	if err := d.bus.Publish(ctx, subject, body); err != nil {
		d.logger.WithError(err).WithField("event", event).Error("Failed to publish notice to message bus")
	}
}
