package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/pagegrid/internal/editor"
	"github.com/lehigh-university-libraries/pagegrid/internal/upload"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServer = "http://localhost:5000"

	envServer = "PAGEGRID_SERVER"
	envConfig = "PAGEGRID_CONFIG"
)

// Config holds client settings. Durations are YAML strings like "500ms".
// A zero delay is used as is.
type Config struct {
	Server        string        `yaml:"server"`
	RedirectDelay time.Duration `yaml:"redirect_delay"`
	DownloadDelay time.Duration `yaml:"download_delay"`
	Timeout       time.Duration `yaml:"timeout"`
	OutputDir     string        `yaml:"output_dir"`
	CookieFile    string        `yaml:"cookie_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:        DefaultServer,
		RedirectDelay: upload.DefaultRedirectDelay,
		DownloadDelay: editor.DefaultDownloadDelay,
		OutputDir:     ".",
		CookieFile:    defaultCookieFile(),
	}
}

func defaultCookieFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pagegrid-session.yaml"
	}
	return filepath.Join(dir, "pagegrid", "session.yaml")
}

// Load reads path, or $PAGEGRID_CONFIG when path is empty, over the
// defaults and then applies environment overrides. With neither set only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(envConfig)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if server := os.Getenv(envServer); server != "" {
		cfg.Server = server
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Server == "" {
		return errors.New("server URL is required")
	}
	if c.RedirectDelay < 0 || c.DownloadDelay < 0 || c.Timeout < 0 {
		return errors.New("delays and timeout must not be negative")
	}
	return nil
}
