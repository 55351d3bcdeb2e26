package preyforum

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/preyforum/preyforum/preyforum/progression"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log         LogConfig         `toml:"log"`
	Server      ServerConfig      `toml:"server"`
	DB          DBConfig          `toml:"db"`
	Spaces      SpacesConfig      `toml:"spaces"`
	Notify      NotifyConfig      `toml:"notify"`
	Progression ProgressionConfig `toml:"progression"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Addr          string `toml:"addr"`
	PublicURL     string `toml:"public_url"`
	Environment   string `toml:"environment"`
	SessionSecret string `toml:"session_secret"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type SpacesConfig struct {
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	MediaRoot string `toml:"mediaroot"`
}

// NotifyConfig points role-change announcements at a Discord webhook. Both
// fields empty disables the webhook sink.
type NotifyConfig struct {
	WebhookID    snowflake.ID `toml:"webhook_id"`
	WebhookToken string       `toml:"webhook_token"`
}

// ProgressionConfig carries the deployment's progress bar position table.
// Empty means the built-in defaults.
type ProgressionConfig struct {
	Positions map[string]float64 `toml:"positions"`
}

// EngineConfig builds the progression engine config with any configured
// position overrides applied.
func (c ProgressionConfig) EngineConfig() *progression.Config {
	cfg := progression.NewDefaultConfig()
	for role, position := range c.Positions {
		cfg.Positions[progression.Role(role)] = position
	}
	return cfg
}
