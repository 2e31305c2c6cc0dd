package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: users-api
  env: test
  http:
    host: 127.0.0.1
    port: 8080
log:
  level: debug
  json: false
mongo:
  uri: mongodb://localhost:27017
  maxpoolsize: 50
  ensureindexes: true
redis:
  addr: localhost:6379
stats:
  cachettlsec: 60
`), 0o644))

	c := Load(path)

	assert.Equal(t, "users-api", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "mongodb://localhost:27017", c.Mongo.URI)
	assert.Equal(t, 50, c.Mongo.MaxPoolSize)
	assert.True(t, c.Mongo.EnsureIndexes)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 60, c.Stats.CacheTTLSec)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: users-api
mongo:
  uri: mongodb://localhost:27017
`), 0o644))

	c := Load(path)

	assert.Equal(t, "users", c.Mongo.Database)
	assert.Equal(t, 10, c.Mongo.ConnectTimeoutSec)
	assert.Equal(t, 30, c.Stats.CacheTTLSec)
}
