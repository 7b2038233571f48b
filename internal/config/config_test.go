package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 30*24*time.Hour, c.RememberTTL)
	assert.Equal(t, "local", c.AssetBackend)
	assert.True(t, c.KeepReplacedImages)
	assert.Equal(t, 10*time.Second, c.AdzunaTimeout)
	assert.Equal(t, "Georgia", c.AdzunaDefaultLocation)
	assert.InDelta(t, 41.7151, c.AdzunaDefaultLat, 1e-9)
	assert.InDelta(t, 44.8271, c.AdzunaDefaultLon, 1e-9)
}

func TestLoad_NoSourcesKeepsDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want.HTTPAddr, c.HTTPAddr)
	assert.Equal(t, want.DatabaseDSN, c.DatabaseDSN)
}

func TestLoad_YAMLThenEnvThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
http_addr: ":9000"
upload_dir: "/srv/uploads"
adzuna_timeout: 3s
adzuna_default_location: "London"
keep_replaced_images: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("ADZUNA_DEFAULT_LOCATION", "Berlin")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	c, err := Load([]string{"-config", path, "-addr", ":7000"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.HTTPAddr, "flag wins over yaml")
	assert.Equal(t, "/srv/uploads", c.UploadDir)
	assert.Equal(t, 3*time.Second, c.AdzunaTimeout)
	assert.Equal(t, "Berlin", c.AdzunaDefaultLocation, "env wins over yaml")
	assert.False(t, c.KeepReplacedImages)
	assert.Equal(t, 2, c.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoad_MissingYAML(t *testing.T) {
	_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
