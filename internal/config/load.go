package config

import "github.com/Skotchmaster/online_shopping/pkg/config"

type ServiceConfig struct {
	config.Config
}

// Load reads the environment for the HTTP server and exits when a required key is missing.
func Load() ServiceConfig {
	cfg := config.Load()
	cfg.MustRequire()
	return ServiceConfig{Config: cfg}
}

// LoadForMigrate only requires the database url.
func LoadForMigrate() ServiceConfig {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) SearchEnabled() bool {
	return c.ElasticURL != ""
}

func (c ServiceConfig) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
