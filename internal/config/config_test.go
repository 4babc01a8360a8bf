package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "plum/internal/errors"
	"plum/internal/paths"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
	for _, dir := range []string{"tests", "bonus", ".git"} {
		found := false
		for _, d := range cfg.Discovery.IgnoredDirs {
			found = found || d == dir
		}
		if !found {
			t.Errorf("IgnoredDirs lacks %s", dir)
		}
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be off by default")
	}
	if cfg.EffectiveWorkers() < 1 {
		t.Errorf("EffectiveWorkers() = %d", cfg.EffectiveWorkers())
	}
	cfg.Workers = 3
	if cfg.EffectiveWorkers() != 3 {
		t.Errorf("EffectiveWorkers() = %d, want 3", cfg.EffectiveWorkers())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"version", func(c *Config) { c.Version = 7 }, "version"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"upper log level", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"output format", func(c *Config) { c.Output.Format = "html" }, "output.format"},
		{"cache path", func(c *Config) { c.Cache.Enabled = true; c.Cache.Path = "" }, "cache.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("Validate() error = %v, want field %s", err, tt.field)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "human" || cfg.Version != CurrentVersion {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_SaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Output.Format = "sarif"
	cfg.Discovery.IgnoredDirs = []string{"vendor"}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Workers != 2 || loaded.Output.Format != "sarif" {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Discovery.IgnoredDirs) != 1 || loaded.Discovery.IgnoredDirs[0] != "vendor" {
		t.Errorf("IgnoredDirs = %v", loaded.Discovery.IgnoredDirs)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	if _, err := paths.EnsureDir(root); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigPath(root), []byte(`{"workers": 4}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 4 || cfg.Logging.Level != "warn" || !cfg.Discovery.UseGitignore {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := t.TempDir()
	if _, err := paths.EnsureDir(root); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigPath(root), []byte(`{"workers": `), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(root)
	if perrors.CodeOf(err) != perrors.ConfigInvalid {
		t.Errorf("LoadConfig() error = %v, want %s", err, perrors.ConfigInvalid)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PLUM_WORKERS", "6")
	t.Setenv("PLUM_LOG_LEVEL", "debug")
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6", cfg.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
[rules.C-O4]
enabled = false

[rules.C-A3]
severity = "please add a newline"

[rules.C-F3.settings]
max_columns = 100

[[overrides]]
paths = ["lib/**"]
disable = ["C-G1", "C-F3"]
`)
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}

	opts := p.Options(nil)
	if len(opts.Disabled) != 1 || opts.Disabled[0] != "C-O4" {
		t.Errorf("Disabled = %v", opts.Disabled)
	}
	if opts.Severities["C-A3"] != "please add a newline" {
		t.Errorf("Severities = %v", opts.Severities)
	}
	if opts.Settings["C-F3"]["max_columns"] != int64(100) {
		t.Errorf("Settings = %v", opts.Settings)
	}

	root := filepath.Join(string(filepath.Separator), "proj")
	skip := p.Skip(root)
	if skip == nil {
		t.Fatal("Skip() = nil")
	}
	tests := []struct {
		path, id string
		want     bool
	}{
		{filepath.Join(root, "lib", "my", "str.c"), "C-G1", true},
		{filepath.Join(root, "lib", "str.c"), "C-F3", true},
		{filepath.Join(root, "lib", "str.c"), "C-L2", false},
		{filepath.Join(root, "src", "main.c"), "C-G1", false},
	}
	for _, tt := range tests {
		if got := skip(tt.path, tt.id); got != tt.want {
			t.Errorf("skip(%s, %s) = %v, want %v", tt.path, tt.id, got, tt.want)
		}
	}
}

func TestLoadProfile_Missing(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Skip("/") != nil || len(p.Options(nil).Disabled) != 0 {
		t.Error("missing profile should change nothing")
	}
}

func TestLoadProfile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[rules.C-F3\n"},
		{"unknown key", "[rules.C-F3]\ncolour = \"red\"\n"},
		{"unknown override rule", "[[overrides]]\npaths = [\"*.c\"]\ndisable = [\"C-Z1\"]\n"},
		{"bad glob", "[[overrides]]\npaths = [\"[a\"]\ndisable = [\"C-G1\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(writeProfile(t, tt.content))
			if perrors.CodeOf(err) != perrors.ProfileInvalid {
				t.Errorf("LoadProfile() error = %v, want %s", err, perrors.ProfileInvalid)
			}
		})
	}
}

func TestDefaultProfileRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultProfile().Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(buf.String(), "max_columns = 80") {
		t.Errorf("encoded profile lacks settings:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "nested", "profile.toml")
	if err := SaveProfile(DefaultProfile(), path); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if len(p.Rules) != 29 {
		t.Errorf("len(Rules) = %d, want 29", len(p.Rules))
	}
	if sev := p.Options(nil).Severities["C-G10"]; sev != "FATAL" {
		t.Errorf("C-G10 severity = %q", sev)
	}
}
