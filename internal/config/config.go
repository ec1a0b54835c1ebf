package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "SMC_"

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Storage    StorageConfig    `toml:"storage"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Locking    LockingConfig    `toml:"locking"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig выбор хранилища бронирований
type StorageConfig struct {
	Driver string `toml:"driver" validate:"oneof=memory postgres"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

// CatalogConfig источник каталога услуг и справочника сотрудников
type CatalogConfig struct {
	Source  string `toml:"source" validate:"oneof=file http"`
	File    string `toml:"file"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout" validate:"min=1"`
}

// SchedulingConfig настройки расчёта слотов
type SchedulingConfig struct {
	Timezone        string `toml:"timezone" validate:"required"`
	SlotStepMinutes int    `toml:"slot_step_minutes" validate:"min=1,max=1440"`
}

// Location часовой пояс бизнеса
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LockingConfig блокировка мутаций по сотруднику
type LockingConfig struct {
	Driver        string `toml:"driver" validate:"oneof=memory redis"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"min=0"`
	TTL           int    `toml:"ttl" validate:"min=1"`
}

// Default конфигурация по умолчанию: in-memory хранилище, локальные блокировки
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "smc_appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: "memory"},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Catalog: CatalogConfig{
			Source:  "file",
			File:    "catalog.toml",
			Timeout: 5,
		},
		Scheduling: SchedulingConfig{
			Timezone:        "UTC",
			SlotStepMinutes: 30,
		},
		Locking: LockingConfig{
			Driver:    "memory",
			RedisAddr: "localhost:6379",
			TTL:       10,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию,
// затем применяет переменные окружения SMC_* (включая .env, если он есть) и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения и зависимости между секциями
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Storage.Driver == "postgres" && (c.Database.Host == "" || c.Database.DBName == "") {
		return fmt.Errorf("%w: database host and dbname are required for postgres storage", ErrInvalidConfig)
	}
	if c.Catalog.Source == "file" && c.Catalog.File == "" {
		return fmt.Errorf("%w: catalog file is required for file source", ErrInvalidConfig)
	}
	if c.Catalog.Source == "http" && c.Catalog.URL == "" {
		return fmt.Errorf("%w: catalog url is required for http source", ErrInvalidConfig)
	}
	if c.Locking.Driver == "redis" && c.Locking.RedisAddr == "" {
		return fmt.Errorf("%w: redis_addr is required for redis locking", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Scheduling.Timezone, err)
	}

	return nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	stringVars := map[string]*string{
		"DB_HOST":         &c.Database.Host,
		"DB_USER":         &c.Database.User,
		"DB_PASSWORD":     &c.Database.Password,
		"DB_NAME":         &c.Database.DBName,
		"DB_SSLMODE":      &c.Database.SSLMode,
		"STORAGE_DRIVER":  &c.Storage.Driver,
		"LOG_LEVEL":       &c.Logs.Level,
		"LOG_FILE":        &c.Logs.File,
		"CATALOG_SOURCE":  &c.Catalog.Source,
		"CATALOG_FILE":    &c.Catalog.File,
		"CATALOG_URL":     &c.Catalog.URL,
		"TIMEZONE":        &c.Scheduling.Timezone,
		"LOCK_DRIVER":     &c.Locking.Driver,
		"REDIS_ADDR":      &c.Locking.RedisAddr,
		"REDIS_PASSWORD":  &c.Locking.RedisPassword,
		"METRICS_PATH":    &c.Metrics.Path,
		"METRICS_SERVICE": &c.Metrics.ServiceName,
	}
	for key, dst := range stringVars {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HTTP_PORT":         &c.Server.HTTPPort,
		"DB_PORT":           &c.Database.Port,
		"SLOT_STEP_MINUTES": &c.Scheduling.SlotStepMinutes,
		"REDIS_DB":          &c.Locking.RedisDB,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, envPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sMETRICS_ENABLED=%q is not a boolean", ErrInvalidConfig, envPrefix, v)
		}
		c.Metrics.Enabled = enabled
	}

	return nil
}
