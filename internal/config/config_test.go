package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "log", cfg.Mail.Transport)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "dorms"}
	assert.Equal(t, "u:p@tcp(db:3306)/dorms?parseTime=true", cfg.DSN())

	cfg.DBDriver = "sqlite"
	cfg.DBPath = "/tmp/dorms.db"
	assert.Equal(t, "/tmp/dorms.db", cfg.DSN())

	cfg.DBDriver = "postgres"
	assert.Contains(t, cfg.DSN(), "dbname=dorms")
}
