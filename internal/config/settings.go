package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/release"
)

// Settings holds lsprov's runtime settings.
type Settings struct {
	// CacheDir is the root under which each tool gets a working directory.
	CacheDir string `mapstructure:"cache_dir"`

	// GitHubAPI is the base URL of the GitHub REST API.
	GitHubAPI string `mapstructure:"github_api"`

	// GitHubToken authenticates release lookups; it raises the rate limit.
	GitHubToken string `mapstructure:"github_token"`

	// KeyringPath enables signature verification of downloaded archives.
	KeyringPath string `mapstructure:"keyring"`

	// ExtensionPath points to a Lua extension manifest.
	ExtensionPath string `mapstructure:"extension"`

	// HTTPTimeout bounds each HTTP request; zero leaves requests unbounded.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// ConfigFile is the settings file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// LoadOptions selects where LoadSettings looks for a settings file.
type LoadOptions struct {
	// ConfigFile is read exclusively when set and must exist.
	ConfigFile string
	// ConfigDir overrides ConfigDir() for the implicit settings file.
	ConfigDir string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() (*Settings, error) {
	cacheDir, err := DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	return &Settings{
		CacheDir:  cacheDir,
		GitHubAPI: release.DefaultBaseURL,
	}, nil
}

// ConfigDir returns the lsprov configuration directory:
// $XDG_CONFIG_HOME/lsprov, falling back to the platform's user config dir.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/lsprov, falling back to the
// platform's user cache dir.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// LoadSettings resolves settings from defaults, a settings file and the
// environment.
func LoadSettings(ctx context.Context, opts LoadOptions) (*Settings, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	defaults, err := DefaultSettings()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("github_api", defaults.GitHubAPI)
	v.SetDefault("github_token", "")
	v.SetDefault("keyring", "")
	v.SetDefault("extension", "")
	v.SetDefault("http_timeout", "0s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind github token: %w", err)
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir := opts.ConfigDir
		if dir == "" {
			if dir, err = ConfigDir(); err != nil {
				return nil, err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	settings.ConfigFile = v.ConfigFileUsed()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate checks settings that would otherwise fail late.
func (s *Settings) Validate() error {
	if s.CacheDir == "" {
		return &ValidationError{Field: "cache_dir", Message: "cannot be empty"}
	}
	if !strings.HasPrefix(s.GitHubAPI, "https://") && !strings.HasPrefix(s.GitHubAPI, "http://") {
		return &ValidationError{
			Field:   "github_api",
			Message: fmt.Sprintf("must be an http(s) URL (got %q)", s.GitHubAPI),
		}
	}
	if s.HTTPTimeout < 0 {
		return &ValidationError{Field: "http_timeout", Message: "cannot be negative"}
	}
	return nil
}
