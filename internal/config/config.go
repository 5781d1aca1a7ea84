package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Payments      PaymentsConfig      `toml:"payments"`
	Notifications NotificationsConfig `toml:"notifications"`
	Capture       CaptureConfig       `toml:"capture"`
	Booking       BookingConfig       `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis для блокировки слотов. Пустой адрес отключает блокировку.
type RedisConfig struct {
	Address        string `toml:"address"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
	LockWaitMillis int    `toml:"lock_wait_ms"` // ожидание занятой блокировки, 0 - не ждать
}

// Enabled возвращает true, если Redis сконфигурирован
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// PaymentsConfig настройки платежного провайдера
type PaymentsConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Timeout    int    `toml:"timeout"`
	RetryCount int    `toml:"retry_count"`
}

// NotificationsConfig настройки уведомлений
type NotificationsConfig struct {
	Enabled        bool        `toml:"enabled"`
	RatePerSecond  float64     `toml:"rate_per_second"`
	Burst          int         `toml:"burst"`
	TimeoutSeconds int         `toml:"timeout_seconds"`
	Email          EmailConfig `toml:"email"`
	SMS            SMSConfig   `toml:"sms"`
}

// EmailConfig настройки SendGrid
type EmailConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
}

// SMSConfig настройки SMS шлюза
type SMSConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	From    string `toml:"from"`
	Timeout int    `toml:"timeout"`
}

// CaptureConfig настройки фонового списания платежей
type CaptureConfig struct {
	Enabled        bool   `toml:"enabled"`
	Schedule       string `toml:"schedule"`
	Concurrency    int    `toml:"concurrency"`
	TimeoutSeconds int    `toml:"timeout_seconds"` // ограничение одного прогона
}

// BookingConfig общие настройки бронирования
type BookingConfig struct {
	DefaultTimezone string `toml:"default_timezone"`
	DefaultCurrency string `toml:"default_currency"`
}

// Load загружает конфигурацию из TOML файла.
// Поддерживаются плейсхолдеры ${ENV_VAR}, секреты дополнительно переопределяются из окружения.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(data)))
}

// Parse разбирает конфигурацию из строки TOML
func Parse(data string) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults(meta)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":      &c.Database.Password,
		"PAYMENTS_API_KEY": &c.Payments.APIKey,
		"SENDGRID_API_KEY": &c.Notifications.Email.APIKey,
		"SMS_API_KEY":      &c.Notifications.SMS.APIKey,
		"REDIS_PASSWORD":   &c.Redis.Password,
	}
	for env, target := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*target = v
		}
	}
}

// applyDefaults заполняет незаданные значения.
// Для ключей, где 0 - осмысленное значение, учитывается только отсутствие ключа в файле.
func (c *Config) applyDefaults(meta toml.MetaData) {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "kitchen-booking")

	setInt(&c.Redis.LockTTLSeconds, 10)
	if !meta.IsDefined("redis", "lock_wait_ms") {
		c.Redis.LockWaitMillis = 2000
	}

	setInt(&c.Payments.Timeout, 10)
	if !meta.IsDefined("payments", "retry_count") {
		c.Payments.RetryCount = 2
	}

	if c.Notifications.RatePerSecond <= 0 {
		c.Notifications.RatePerSecond = 5
	}
	setInt(&c.Notifications.Burst, 10)
	setInt(&c.Notifications.TimeoutSeconds, 15)
	setInt(&c.Notifications.SMS.Timeout, 10)

	setString(&c.Capture.Schedule, "@hourly")
	setInt(&c.Capture.Concurrency, 4)
	setInt(&c.Capture.TimeoutSeconds, 600)

	setString(&c.Booking.DefaultTimezone, "America/St_Johns")
	setString(&c.Booking.DefaultCurrency, "CAD")
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if c.Payments.RetryCount < 0 {
		return fmt.Errorf("invalid payments.retry_count: %d", c.Payments.RetryCount)
	}
	if c.Redis.LockWaitMillis < 0 {
		return fmt.Errorf("invalid redis.lock_wait_ms: %d", c.Redis.LockWaitMillis)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Notifications.Email.Enabled && c.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email is enabled")
	}
	if c.Notifications.SMS.Enabled && c.Notifications.SMS.BaseURL == "" {
		return fmt.Errorf("notifications.sms.base_url is required when sms is enabled")
	}
	return nil
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
