package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/release"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/testutil"
)

func writeSettingsFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	s, err := LoadSettings(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Join(env.CacheDir, AppName); s.CacheDir != want {
		t.Errorf("CacheDir = %s, want %s", s.CacheDir, want)
	}
	if s.GitHubAPI != release.DefaultBaseURL {
		t.Errorf("GitHubAPI = %s, want %s", s.GitHubAPI, release.DefaultBaseURL)
	}
	if s.GitHubToken != "" || s.KeyringPath != "" || s.ExtensionPath != "" {
		t.Errorf("expected empty optional settings, got %+v", s)
	}
	if s.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want 0", s.HTTPTimeout)
	}
	if s.ConfigFile != "" {
		t.Errorf("expected no config file, got %s", s.ConfigFile)
	}
}

func TestLoadSettings_ConfigDirFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `cache_dir = "/srv/lsprov"
github_api = "https://github.example.com/api/v3"
http_timeout = "45s"
keyring = "/etc/lsprov/keys.asc"
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `cache_dir: /srv/lsprov
github_api: https://github.example.com/api/v3
http_timeout: 45s
keyring: /etc/lsprov/keys.asc
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.SetupTestEnv(t)
			path := writeSettingsFile(t, filepath.Join(env.ConfigDir, AppName), tt.file, tt.content)

			s, err := LoadSettings(context.Background(), LoadOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if s.CacheDir != "/srv/lsprov" {
				t.Errorf("CacheDir = %s", s.CacheDir)
			}
			if s.GitHubAPI != "https://github.example.com/api/v3" {
				t.Errorf("GitHubAPI = %s", s.GitHubAPI)
			}
			if s.HTTPTimeout != 45*time.Second {
				t.Errorf("HTTPTimeout = %v", s.HTTPTimeout)
			}
			if s.KeyringPath != "/etc/lsprov/keys.asc" {
				t.Errorf("KeyringPath = %s", s.KeyringPath)
			}
			if s.ConfigFile != path {
				t.Errorf("ConfigFile = %s, want %s", s.ConfigFile, path)
			}
		})
	}
}

func TestLoadSettings_ExplicitFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	writeSettingsFile(t, filepath.Join(env.ConfigDir, AppName), "config.toml", `cache_dir = "/ignored"`)
	explicit := writeSettingsFile(t, env.Root, "custom.toml", `cache_dir = "/explicit"`)

	s, err := LoadSettings(context.Background(), LoadOptions{ConfigFile: explicit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CacheDir != "/explicit" {
		t.Errorf("CacheDir = %s, want /explicit", s.CacheDir)
	}

	_, err = LoadSettings(context.Background(), LoadOptions{ConfigFile: filepath.Join(env.Root, "missing.toml")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected missing file error, got: %v", err)
	}
}

func TestLoadSettings_ConfigDirOverride(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	dir := filepath.Join(env.Root, "elsewhere")
	writeSettingsFile(t, dir, "config.yaml", "cache_dir: /from/override\n")

	s, err := LoadSettings(context.Background(), LoadOptions{ConfigDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CacheDir != "/from/override" {
		t.Errorf("CacheDir = %s, want /from/override", s.CacheDir)
	}
}

func TestLoadSettings_Environment(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	writeSettingsFile(t, filepath.Join(env.ConfigDir, AppName), "config.toml", `cache_dir = "/from/file"`)

	t.Setenv("LSPROV_CACHE_DIR", "/from/env")
	t.Setenv("LSPROV_HTTP_TIMEOUT", "2m")
	t.Setenv("LSPROV_EXTENSION", "/etc/lsprov/extension.lua")

	s, err := LoadSettings(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.CacheDir != "/from/env" {
		t.Errorf("environment should override file: CacheDir = %s", s.CacheDir)
	}
	if s.HTTPTimeout != 2*time.Minute {
		t.Errorf("HTTPTimeout = %v, want 2m", s.HTTPTimeout)
	}
	if s.ExtensionPath != "/etc/lsprov/extension.lua" {
		t.Errorf("ExtensionPath = %s", s.ExtensionPath)
	}
}

func TestLoadSettings_GitHubToken(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		wanted string
	}{
		{name: "none", env: map[string]string{}, wanted: ""},
		{name: "fallback", env: map[string]string{"GITHUB_TOKEN": "gh"}, wanted: "gh"},
		{name: "prefixed", env: map[string]string{"LSPROV_GITHUB_TOKEN": "ls"}, wanted: "ls"},
		{name: "prefixed_wins", env: map[string]string{"LSPROV_GITHUB_TOKEN": "ls", "GITHUB_TOKEN": "gh"}, wanted: "ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupTestEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			s, err := LoadSettings(context.Background(), LoadOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.GitHubToken != tt.wanted {
				t.Errorf("GitHubToken = %q, want %q", s.GitHubToken, tt.wanted)
			}
		})
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "bad api url", env: map[string]string{"LSPROV_GITHUB_API": "ftp://example.com"}, field: "github_api"},
		{name: "negative timeout", env: map[string]string{"LSPROV_HTTP_TIMEOUT": "-1s"}, field: "http_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupTestEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadSettings(context.Background(), LoadOptions{})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.field)
			}
		})
	}
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	writeSettingsFile(t, filepath.Join(env.ConfigDir, AppName), "config.toml", "cache_dir = = broken")

	if _, err := LoadSettings(context.Background(), LoadOptions{}); err == nil {
		t.Error("expected error but got none")
	}
}

func TestLoadSettings_Cancelled(t *testing.T) {
	testutil.SetupTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadSettings(ctx, LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
