package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	StagesFile  string

	AllowedOrigins []string
	TrustProxy     bool

	RelayURL  string
	RelayPort string

	RabbitMQ RabbitMQConfig
	Mail     MailConfig
	Twilio   TwilioConfig
}

type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// Enabled reports whether a broker host was configured.
func (c RabbitMQConfig) Enabled() bool {
	return c.Host != ""
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
	BaseURL        string
}

type stagesFile struct {
	Stages []entity.StageDefinition `yaml:"stages"`
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("SQLITE_PATH", "crm.db"),
		StagesFile:     os.Getenv("PIPELINE_STAGES_FILE"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
		TrustProxy:     strings.EqualFold(os.Getenv("TRUST_PROXY"), "true"),
		RelayURL:       getenv("RELAY_URL", "http://localhost:3001"),
		RelayPort:      getenv("RELAY_PORT", "3001"),
		RabbitMQ: RabbitMQConfig{
			User:     getenv("RABBITMQ_USER", "guest"),
			Password: getenv("RABBITMQ_PASS", "guest"),
			Host:     os.Getenv("RABBITMQ_HOST"),
			Port:     getenv("RABBITMQ_PORT", "5672"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     getenv("MAIL_FROM", os.Getenv("MAIL_USER")),
		},
		Twilio: TwilioConfig{
			AccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
			BaseURL:        getenv("TWILIO_BASE_URL", "https://api.twilio.com"),
		},
	}

	port, err := strconv.Atoi(getenv("MAIL_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}
	cfg.Mail.Port = port

	return cfg, nil
}

// ValidateStore is only required by the API; the relay has no store.
func (c Config) ValidateStore() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (expected %s or %s)", c.StoreDriver, DriverPostgres, DriverSQLite)
	}
	return nil
}

// Stages builds the registry from StagesFile, or the default pipeline when unset.
func (c Config) Stages() (*entity.StageRegistry, error) {
	if c.StagesFile == "" {
		return entity.DefaultStageRegistry(), nil
	}
	return LoadStages(c.StagesFile)
}

// LoadStages reads a YAML file of the form:
//
//	stages:
//	  - id: incoming
//	    label: Incoming
func LoadStages(path string) (*entity.StageRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stages file: %w", err)
	}
	return ParseStages(data)
}

func ParseStages(data []byte) (*entity.StageRegistry, error) {
	var f stagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stages file: %w", err)
	}
	reg, err := entity.NewStageRegistry(f.Stages...)
	if err != nil {
		return nil, fmt.Errorf("invalid stages file: %w", err)
	}
	return reg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
