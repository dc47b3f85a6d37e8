package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/online_shopping/pkg/config"
)

func TestServiceConfig_Toggles(t *testing.T) {
	var c ServiceConfig
	assert.False(t, c.SearchEnabled())
	assert.False(t, c.EventsEnabled())

	c = ServiceConfig{Config: config.Config{
		ElasticURL:   "http://es:9200",
		KafkaBrokers: []string{"kafka:9092"},
	}}
	assert.True(t, c.SearchEnabled())
	assert.True(t, c.EventsEnabled())
}

func TestLoad_WithRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg := Load()
	assert.Equal(t, "secret", string(cfg.JWTAccessSecret))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
}
