package config

import (
	"github.com/preyforum/preyforum/preyforum"
)

// WebAppConfig contains web-specific configuration.
type WebAppConfig struct {
	Config      *preyforum.Config
	Debug       bool
	Environment string
}

func NewWebAppConfig(cfg *preyforum.Config, debug bool) *WebAppConfig {
	environment := cfg.Server.Environment
	if environment == "" {
		environment = "production"
		if debug {
			environment = "development"
		}
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       debug,
		Environment: environment,
	}
}

func (w *WebAppConfig) SessionSecret() []byte {
	return []byte(w.Config.Server.SessionSecret)
}
