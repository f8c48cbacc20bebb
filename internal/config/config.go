package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Секрет для проверки входящих JWT токенов
	JWTSecret string `env:"JWT_SECRET"`

	// Message Bus Config: имя темы (очереди в Redis) и шлюз почтовых уведомлений.
	// Пустая тема означает, что публикация в шину отключена.
	BusTopic           string        `env:"BUS_TOPIC"`
	MailWebhookURL     string        `env:"MAIL_WEBHOOK_URL"`
	MailWebhookSecret  string        `env:"MAIL_WEBHOOK_SECRET"`
	MailWebhookTimeout time.Duration `env:"MAIL_WEBHOOK_TIMEOUT" envDefault:"5s"`
	BusMaxRetries      int           `env:"BUS_MAX_RETRIES" envDefault:"3"`
	BusBaseDelay       time.Duration `env:"BUS_BASE_DELAY" envDefault:"1s"`

	// Таймаут фоновой рассылки уведомлений на одно событие
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`

	// Escalation Config: фоновая эскалация срочности старых инцидентов
	EscalationEnabled           bool `env:"ESCALATION_ENABLED" envDefault:"true"`
	EscalationIntervalMinutes   int  `env:"ESCALATION_INTERVAL_MINUTES" envDefault:"30"`
	EscalationLowToMediumMin    int  `env:"ESCALATION_LOW_TO_MEDIUM_MINUTES" envDefault:"240"`
	EscalationMediumToHighMin   int  `env:"ESCALATION_MEDIUM_TO_HIGH_MINUTES" envDefault:"120"`
	EscalationHighToCriticalMin int  `env:"ESCALATION_HIGH_TO_CRITICAL_MINUTES" envDefault:"60"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		BusTopic:           os.Getenv("BUS_TOPIC"),
		MailWebhookURL:     os.Getenv("MAIL_WEBHOOK_URL"),
		MailWebhookSecret:  os.Getenv("MAIL_WEBHOOK_SECRET"),
		MailWebhookTimeout: getEnvAsDuration("MAIL_WEBHOOK_TIMEOUT", 5*time.Second),
		BusMaxRetries:      getEnvAsInt("BUS_MAX_RETRIES", 3),
		BusBaseDelay:       getEnvAsDuration("BUS_BASE_DELAY", time.Second),
		DispatchTimeout:    getEnvAsDuration("DISPATCH_TIMEOUT", 10*time.Second),

		EscalationEnabled:           getEnvAsBool("ESCALATION_ENABLED", true),
		EscalationIntervalMinutes:   getEnvAsInt("ESCALATION_INTERVAL_MINUTES", 30),
		EscalationLowToMediumMin:    getEnvAsInt("ESCALATION_LOW_TO_MEDIUM_MINUTES", 240),
		EscalationMediumToHighMin:   getEnvAsInt("ESCALATION_MEDIUM_TO_HIGH_MINUTES", 120),
		EscalationHighToCriticalMin: getEnvAsInt("ESCALATION_HIGH_TO_CRITICAL_MINUTES", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
