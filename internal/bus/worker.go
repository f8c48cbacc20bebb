package bus

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/campus_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

// Worker вычитывает уведомления из очереди темы и доставляет их на
// почтовый шлюз. Доставка происходит вне пути запроса: сбои ретраятся
// здесь и не видны коду, опубликовавшему уведомление.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewWorker создает нового воркера доставки уведомлений
func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.MailWebhookTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди уведомлений
func (w *Worker) Start(ctx context.Context) {
	if w.cfg.BusTopic == "" {
		w.logger.Warn("Bus topic is not configured, delivery worker will not start")
		return
	}

	w.logger.Info("Starting bus delivery worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping bus delivery worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка (очереди)
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, w.cfg.BusTopic).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop notice from Redis")
					time.Sleep(w.cfg.MailWebhookTimeout) // Ждем перед повторной попыткой
					continue
				}

				// result[0] - ключ, result[1] - значение
				payload := result[1]
				var notice Notice
				if err := json.Unmarshal([]byte(payload), &notice); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal notice from Redis")
					continue
				}

				w.deliverNotice(ctx, notice, payload)
			}
		}
	}()
}

func (w *Worker) deliverNotice(ctx context.Context, notice Notice, rawPayload string) {
	log := w.logger.WithField("notice_subject", notice.Subject)
	log.Debug("Delivering bus notice...")

	if w.cfg.MailWebhookURL == "" {
		log.Warn("Mail webhook URL is not configured. Skipping notice delivery.")
		return
	}

	maxRetries := w.cfg.BusMaxRetries
	baseDelay := w.cfg.BusBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.MailWebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create delivery request. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")

		// Добавляем HMAC подпись, если MAIL_WEBHOOK_SECRET задан
		if w.cfg.MailWebhookSecret != "" {
			signature := generateHMACSHA256(rawPayload, w.cfg.MailWebhookSecret)
			req.Header.Set("X-Notice-Signature", signature)
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to deliver notice. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Bus notice delivered successfully.")
			return
		}

		log.Warnf("Notice delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, baseDelay, maxRetries-1-i)
		time.Sleep(baseDelay)
		baseDelay *= 2 // Экспоненциальная задержка
	}

	log.Errorf("Failed to deliver bus notice after %d retries.", maxRetries)
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
