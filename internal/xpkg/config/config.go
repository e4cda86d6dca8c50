package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server  Server
	DB      Postgres
	RMQ     RabbitMQ
	JWT     JWT
	Invoice Invoice
	Reset   Reset
}

type Server struct {
	Port        int
	MetricsPort int
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	URL      string
}

type RabbitMQ struct {
	Host     string
	Port     string
	User     string
	Password string
	VHost    string
	Exchange string
}

type JWT struct {
	Secret          string
	ExpirationHours int
}

type Invoice struct {
	TaxRate float64
}

type Reset struct {
	CodeTTLMinutes int
}

// Load reads .env (when present) and the process environment, env winning.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine, the environment may carry everything.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "restopos")
	v.SetDefault("RABBITMQ_HOST", "localhost")
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("RABBITMQ_USER", "guest")
	v.SetDefault("RABBITMQ_PASSWORD", "guest")
	v.SetDefault("RABBITMQ_VHOST", "/")
	v.SetDefault("RABBITMQ_EXCHANGE", "pos.notifications")
	v.SetDefault("JWT_EXPIRATION_HOURS", 1)
	v.SetDefault("TAX_RATE", 0.0)
	v.SetDefault("RESET_CODE_TTL_MINUTES", 15)

	cfg := &Config{
		Server: Server{
			Port:        v.GetInt("SERVER_PORT"),
			MetricsPort: v.GetInt("METRICS_PORT"),
		},
		DB: Postgres{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			URL:      v.GetString("DATABASE_URL"),
		},
		RMQ: RabbitMQ{
			Host:     v.GetString("RABBITMQ_HOST"),
			Port:     v.GetString("RABBITMQ_PORT"),
			User:     v.GetString("RABBITMQ_USER"),
			Password: v.GetString("RABBITMQ_PASSWORD"),
			VHost:    v.GetString("RABBITMQ_VHOST"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		JWT: JWT{
			Secret:          v.GetString("JWT_SECRET"),
			ExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Invoice: Invoice{
			TaxRate: v.GetFloat64("TAX_RATE"),
		},
		Reset: Reset{
			CodeTTLMinutes: v.GetInt("RESET_CODE_TTL_MINUTES"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (p Postgres) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// AMQPURL builds the broker connection string.
func (r RabbitMQ) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		r.User, r.Password, r.Host, r.Port, r.VHost)
}
