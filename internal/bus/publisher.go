package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Notice - одно уведомление, опубликованное в шину сообщений
type Notice struct {
	Topic      string    `json:"topic"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RedisPublisher публикует уведомления в очередь Redis, играющую роль
// темы шины сообщений. Реализует notifier.BusPublisher.
type RedisPublisher struct {
	redisClient *redis.Client
	topic       string
	logger      *logrus.Logger
}

// NewRedisPublisher создает издателя для заданной темы.
// Пустая тема допустима: публикация превращается в no-op.
func NewRedisPublisher(client *redis.Client, topic string, logger *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
		topic:       topic,
		logger:      logger,
	}
}

// Publish кладет уведомление в очередь темы.
// Отсутствие настроенной темы логируется и не считается ошибкой.
func (p *RedisPublisher) Publish(ctx context.Context, subject, body string) error {
	if p.topic == "" {
		p.logger.Warn("Bus topic is not configured, dropping notice")
		return nil
	}

	notice := Notice{
		Topic:      p.topic,
		Subject:    subject,
		Body:       body,
		EnqueuedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal bus notice: %w", err)
	}

	// LPUSH добавляет уведомление в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, p.topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notice to Redis: %w", err)
	}
	return nil
}
