package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_ACCESS_EXPIRY_MINUTES", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")

	cfg := Load()
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 60*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TAXONOMY_CACHE_TTL_SECONDS", "30")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.TaxonomyCacheTTL)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, int32(10), cfg.MaxDBConns)
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example, ,https://b.example "),
	)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "taxonomy:groups", CacheKey.TaxonomyGroupsKey())
	assert.Equal(t, "auth:refresh:abc", CacheKey.RefreshTokenKey("abc"))
}
