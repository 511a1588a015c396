package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PostgresConfig параметры подключения, когда DATABASE_URL не задан целиком
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// CalendarConfig учётные данные сервисного аккаунта Google Calendar
type CalendarConfig struct {
	CalendarID string `yaml:"calendar_id"`
	Email      string `yaml:"service_account_email"`
	PrivateKey string `yaml:"service_account_private_key"`
	KeyPath    string `yaml:"service_account_key_path"`
	Timezone   string `yaml:"timezone"`

	// EventDuration длительность события брони. Единое значение вместо
	// разнобоя 1ч/2ч в исходных путях вызова.
	EventDuration time.Duration `yaml:"event_duration"`
}

// Config конфигурация сервиса: значения по умолчанию, затем необязательный
// YAML-файл из CONFIG_FILE, затем переменные окружения поверх
type Config struct {
	Port        int            `yaml:"port"`
	Environment string         `yaml:"environment"`
	DatabaseURL string         `yaml:"database_url"`
	Postgres    PostgresConfig `yaml:"postgres"`
	Calendar    CalendarConfig `yaml:"calendar"`

	OutboxInterval time.Duration `yaml:"outbox_interval"`
	StaticDir      string        `yaml:"static_dir"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        3000,
		Environment: "development",
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		Calendar: CalendarConfig{
			Timezone:      "Europe/Madrid",
			EventDuration: time.Hour,
		},
		OutboxInterval: time.Minute,
		StaticDir:      "public",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Environment, "APP_ENV")
	setStr(&c.DatabaseURL, "DATABASE_URL")
	setStr(&c.Postgres.Host, "POSTGRES_HOST")
	setStr(&c.Postgres.Port, "POSTGRES_PORT")
	setStr(&c.Postgres.User, "POSTGRES_USER")
	setStr(&c.Postgres.Password, "POSTGRES_PASSWORD")
	setStr(&c.Postgres.DBName, "POSTGRES_DBNAME")
	setStr(&c.Postgres.SSLMode, "POSTGRES_SSLMODE")
	setStr(&c.Calendar.CalendarID, "GOOGLE_CALENDAR_ID")
	setStr(&c.Calendar.Email, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	setStr(&c.Calendar.PrivateKey, "GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY")
	setStr(&c.Calendar.KeyPath, "GOOGLE_SERVICE_ACCOUNT_KEY_PATH")
	setStr(&c.Calendar.Timezone, "CALENDAR_TIMEZONE")
	setStr(&c.StaticDir, "STATIC_DIR")

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("RESERVATION_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Calendar.EventDuration = d
		}
	}
	if v := os.Getenv("OUTBOX_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.OutboxInterval = d
		}
	}
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DSN строка подключения к Postgres
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

// CalendarConfigured достаточно ли учётных данных для работы зеркала
func (c *Config) CalendarConfigured() bool {
	if c.Calendar.CalendarID == "" {
		return false
	}
	return c.Calendar.KeyPath != "" || (c.Calendar.Email != "" && c.Calendar.PrivateKey != "")
}

// Missing список обязательных переменных окружения без значения,
// отдаётся эндпоинтом /api/health
func (c *Config) Missing() []string {
	var out []string
	if c.DatabaseURL == "" && (c.Postgres.User == "" || c.Postgres.DBName == "") {
		out = append(out, "DATABASE_URL")
	}
	if c.Calendar.CalendarID == "" {
		out = append(out, "GOOGLE_CALENDAR_ID")
	}
	if c.Calendar.KeyPath == "" && c.Calendar.Email == "" {
		out = append(out, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if c.Calendar.KeyPath == "" && c.Calendar.PrivateKey == "" {
		out = append(out, "GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY")
	}
	return out
}
