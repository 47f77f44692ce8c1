package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg := LoadConfig()

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Database.UseSSL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "argon2id", cfg.Auth.PasswordHasher)
	assert.Equal(t, UploadBackendDisk, cfg.Upload.Backend)
	assert.Equal(t, "localhost:3000/static/assets/uploads/", cfg.Upload.URLPrefix)
	assert.Equal(t, MQBackendNone, cfg.MQ.Backend)
	assert.Equal(t, "public", cfg.PublicDir)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("TOKEN_TTL", "0")
	t.Setenv("PASSWORD_HASHER", "BCRYPT")
	t.Setenv("UPLOAD_BACKEND", "MinIO")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("JWT_SECRET", "  shh  ")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, time.Duration(0), cfg.Auth.TokenTTL)
	assert.Equal(t, "bcrypt", cfg.Auth.PasswordHasher)
	assert.Equal(t, UploadBackendMinio, cfg.Upload.Backend)
	assert.Equal(t, int64(1024), cfg.Upload.MaxUploadBytes)
	assert.Equal(t, "shh", cfg.Auth.JWTSecret)
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("DB_USE_SSL", "maybe")
	t.Setenv("TOKEN_TTL", "forever")

	cfg := LoadConfig()

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.False(t, cfg.Database.UseSSL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}
