package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.CartIdleTTL != 2*time.Hour {
		t.Errorf("Server.CartIdleTTL = %v, want 2h", cfg.Server.CartIdleTTL)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Store.Driver != "memory" || cfg.Events.Driver != "none" {
		t.Errorf("drivers = %s/%s, want memory/none", cfg.Store.Driver, cfg.Events.Driver)
	}
	if cfg.Board.PollInterval != 2*time.Second {
		t.Errorf("Board.PollInterval = %v, want 2s", cfg.Board.PollInterval)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ORDERBOARD_SERVER_PORT", "9090")
	t.Setenv("ORDERBOARD_BOARD_POLL_INTERVAL", "500ms")
	t.Setenv("ORDERBOARD_TOKENS_LOCATIONS", "Goa, Agra,")
	t.Setenv("ORDERBOARD_STORE_DRIVER", "postgres")
	t.Setenv("ORDERBOARD_STORE_DSN", "postgres://localhost/orderboard")
	t.Setenv("ORDERBOARD_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Board.PollInterval != 500*time.Millisecond {
		t.Errorf("Board.PollInterval = %v, want 500ms", cfg.Board.PollInterval)
	}
	if got := strings.Join(cfg.Tokens.Locations, "|"); got != "Goa|Agra" {
		t.Errorf("Tokens.Locations = %q, want Goa|Agra", got)
	}
	if cfg.Store.DSN != "postgres://localhost/orderboard" {
		t.Errorf("Store.DSN = %s", cfg.Store.DSN)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderboard.yaml")
	body := `
server:
  port: "7070"
events:
  driver: kafka
  kafka_brokers: ["k1:9092", "k2:9092"]
board:
  queue: Bar
  delivered_retention: 5m
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
	}
	if len(cfg.Events.KafkaBrokers) != 2 {
		t.Errorf("Events.KafkaBrokers = %v", cfg.Events.KafkaBrokers)
	}
	if cfg.Board.Queue != "Bar" || cfg.Board.DeliveredRetention != 5*time.Minute {
		t.Errorf("Board = %+v", cfg.Board)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: "8080"},
			Store:    StoreConfig{Driver: "memory"},
			Events:   EventsConfig{Driver: "none"},
			Board:    BoardConfig{PollInterval: 2 * time.Second},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = "postgres" }, wantErr: true},
		{name: "amqp without url", mutate: func(c *Config) { c.Events.Driver = "amqp" }, wantErr: true},
		{name: "kafka without topic", mutate: func(c *Config) {
			c.Events.Driver = "kafka"
			c.Events.KafkaBrokers = []string{"k:9092"}
		}, wantErr: true},
		{name: "zero poll interval", mutate: func(c *Config) { c.Board.PollInterval = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	if err := (AuthConfig{}).Validate(); err == nil {
		t.Error("Validate() accepted empty secret")
	}
	if err := (AuthConfig{JWTSecret: "short"}).Validate(); err == nil {
		t.Error("Validate() accepted short secret")
	}
	if err := (AuthConfig{JWTSecret: "0123456789abcdef"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
