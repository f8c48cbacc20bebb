package push

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/shenikar/campus_alert_system/internal/notifier"
	"github.com/sirupsen/logrus"
)

// Hub держит активные websocket-соединения и реализует
// notifier.ConnectionRegistry поверх них. Канал односторонний:
// клиенты только получают уведомления.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*websocket.Conn
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*websocket.Conn),
		logger: logger,
	}
}

// Attach принимает входящее websocket-соединение, регистрирует его в
// реестре и блокируется до разрыва. Запись удаляется при любом исходе.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{})
	if err != nil {
		return fmt.Errorf("failed to accept websocket connection: %w", err)
	}

	connectionID := uuid.NewString()
	h.mu.Lock()
	h.conns[connectionID] = conn
	h.mu.Unlock()

	log := h.logger.WithField("connection_id", connectionID)
	log.Info("Push connection registered")

	// Читаем только для того, чтобы заметить разрыв соединения
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	if removeErr := h.Remove(context.Background(), connectionID); removeErr != nil {
		log.WithError(removeErr).Warn("Failed to remove push connection")
	}
	log.Info("Push connection closed")
	return nil
}

// List возвращает идентификаторы всех зарегистрированных соединений
func (h *Hub) List(ctx context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.conns))
	for id := range h.conns {
		ids = append(ids, id)
	}
	return ids, nil
}

// Send отправляет нагрузку одному соединению. Если соединение уже
// закрыто или неизвестно, возвращается notifier.ErrConnectionGone.
func (h *Hub) Send(ctx context.Context, connectionID string, payload []byte) error {
	h.mu.RLock()
	conn, ok := h.conns[connectionID]
	h.mu.RUnlock()
	if !ok {
		return notifier.ErrConnectionGone
	}

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		if websocket.CloseStatus(err) != -1 || errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("%w: %s", notifier.ErrConnectionGone, connectionID)
		}
		return fmt.Errorf("failed to write to connection %s: %w", connectionID, err)
	}
	return nil
}

// Remove удаляет соединение из реестра и закрывает его
func (h *Hub) Remove(ctx context.Context, connectionID string) error {
	h.mu.Lock()
	conn, ok := h.conns[connectionID]
	delete(h.conns, connectionID)
	h.mu.Unlock()

	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "pruned")
	}
	return nil
}

// CloseAll закрывает все соединения при остановке сервиса
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*websocket.Conn)
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
