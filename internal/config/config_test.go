package config_test

import (
	"testing"

	"github.com/dashforge/api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("APP_NAME", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "DashForge", cfg.AppName)
	assert.Equal(t, "587", cfg.SMTPPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("DB_NAME", "dashforge_test")
	t.Setenv("SMTP_HOST", "mail.example.org")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "dashforge_test", cfg.DBName)
	assert.Equal(t, "mail.example.org", cfg.SMTPHost)
}
