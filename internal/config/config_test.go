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
	t.Setenv(envConfig, "")
	t.Setenv(envServer, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, 500*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, 2*time.Second, cfg.DownloadDelay)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`server: http://files.example.edu
redirect_delay: 1s
download_delay: 3s
timeout: 45s
output_dir: ./out
`), 0644))

	t.Setenv(envServer, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://files.example.edu", cfg.Server)
	assert.Equal(t, time.Second, cfg.RedirectDelay)
	assert.Equal(t, 3*time.Second, cfg.DownloadDelay)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "./out", cfg.OutputDir)

	t.Setenv(envServer, "http://override:8080")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:8080", cfg.Server)
}

func TestLoadKeepsZeroDelays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redirect_delay: 0s\ndownload_delay: 0s\n"), 0644))

	t.Setenv(envServer, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.RedirectDelay)
	assert.Zero(t, cfg.DownloadDelay)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(envServer, "")
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout: -5s\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty-server.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("server: \"\"\n"), 0644))
	_, err = Load(empty)
	assert.Error(t, err)
}
