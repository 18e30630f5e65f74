package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// TimeZone используется для дат без таймзоны, приходящих из хранилища и из формы
var TimeZone = time.UTC

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Africa/Casablanca"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Store struct {
		URL     string        `env:"STORE_URL" envDefault:"http://localhost:3001"`
		Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"board:board"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"store.events"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"appointment-board"`
		Binding  string `env:"RABBITMQ_BINDING" envDefault:"#"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CACHE_VIEWS_SIZE" envDefault:"256"`
	}

	Board struct {
		PageSize int `env:"BOARD_PAGE_SIZE" envDefault:"6"`
	}

	Log struct {
		Format LogFormat `env:"LOG_FORMAT" envDefault:"console"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.Log.Format = LogFormat(strings.ToLower(string(cfg.Log.Format)))
	cfg.Store.URL = strings.TrimRight(cfg.Store.URL, "/")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config.timezone: %w", err)
	}
	TimeZone = loc

	cfg.Auth.BasicClients = parseBasicClients(cfg.Auth.BasicClientsString)

	return cfg, nil
}

// Формат: "user1:pass1,user2:pass2"
func parseBasicClients(raw string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
