package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ORDERTAKER"

type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig describes the shop printed on customer messages.
type StoreConfig struct {
	Name          string `yaml:"name"`
	Phone         string `yaml:"phone"`
	MessagingHost string `yaml:"messaging_host" split_words:"true"`
}

type StorageConfig struct {
	// Driver is one of: file, memory, postgres, mysql.
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present: a local
// file-backed store and no outbound connections.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Name:          "Bow Momentum Groceries",
			Phone:         "263780616728",
			MessagingHost: "wa.me",
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "ordertaker.json",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "ordertaker",
			Database: "ordertaker",
			SSLMode:  "disable",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		HTTP: HTTPConfig{Port: 3000},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides named ORDERTAKER_<SECTION>_<FIELD>, for example
// ORDERTAKER_STORAGE_DRIVER or ORDERTAKER_STORE_MESSAGING_HOST.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the file driver")
		}
	case "memory", "postgres":
	case "mysql":
		if c.MySQL.DSN == "" {
			return errors.New("mysql.dsn is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Store.Name == "" {
		return errors.New("store.name is required")
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d is out of range", c.HTTP.Port)
	}

	return nil
}

// PostgresURL builds a connection URL usable by both pgx and migrate.
func (d DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}
