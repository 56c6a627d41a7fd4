// Package config handles configuration loading and defaults for chroncli.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/chroncli/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chroncli/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// TasksFile is the task store's file name inside the data directory.
const TasksFile = "tasks.json"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.chroncli)
	DataDir string `yaml:"data_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes timing and layout
	UX UXConfig `yaml:"ux,omitempty"`
}

// ThemeConfig defines color settings (hex, e.g. "#FF5733").
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"`
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q", "k,up", "tab"
type KeysConfig struct {
	// List mode
	Quit      string `yaml:"quit,omitempty"`       // default: "q"
	Up        string `yaml:"up,omitempty"`         // default: "up,k"
	Down      string `yaml:"down,omitempty"`       // default: "down,j"
	Add       string `yaml:"add,omitempty"`        // default: "a"
	Delete    string `yaml:"delete,omitempty"`     // default: "d"
	Toggle    string `yaml:"toggle,omitempty"`     // default: "space"
	PrevMonth string `yaml:"prev_month,omitempty"` // default: "p"
	NextMonth string `yaml:"next_month,omitempty"` // default: "n"

	// Entry mode
	NextField string `yaml:"next_field,omitempty"` // default: "enter"
	Submit    string `yaml:"submit,omitempty"`     // default: "tab"
	Cancel    string `yaml:"cancel,omitempty"`     // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ShowSplash shows the title card on startup
	ShowSplash bool `yaml:"show_splash"` // default: true

	// SplashDuration is how long the title card holds input
	SplashDuration time.Duration `yaml:"splash_duration,omitempty"` // default: 1.5s

	// ErrorPause is how long input is held after a rejected entry
	ErrorPause time.Duration `yaml:"error_pause,omitempty"` // default: 2s

	// ListRatio is the percentage of the width given to the task list
	ListRatio int `yaml:"list_ratio,omitempty"` // default: 50
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		UX: UXConfig{
			ShowSplash:     true,
			SplashDuration: 1500 * time.Millisecond,
			ErrorPause:     2 * time.Second,
			ListRatio:      50,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chroncli"
	}
	return filepath.Join(home, ".chroncli")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chroncli")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chroncli")
}

// Path returns the config file location, or "" if no home directory is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; without it only non-empty values merge

	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the UI cannot honour.
func (c *Config) Validate() error {
	if c.UX.ListRatio < 20 || c.UX.ListRatio > 80 {
		return fmt.Errorf("ux.list_ratio must be between 20 and 80, got %d", c.UX.ListRatio)
	}
	if c.UX.SplashDuration < 0 || c.UX.ErrorPause < 0 {
		return fmt.Errorf("ux durations must not be negative")
	}
	return nil
}

func (k *KeysConfig) fields() []*string {
	return []*string{
		&k.Quit, &k.Up, &k.Down, &k.Add, &k.Delete, &k.Toggle,
		&k.PrevMonth, &k.NextMonth, &k.NextField, &k.Submit, &k.Cancel,
	}
}

func (t *ThemeConfig) fields() []*string {
	return []*string{&t.Primary, &t.Accent, &t.Muted, &t.Background, &t.Text}
}

// mergeNonEmpty applies non-empty strings and positive numbers from other.
// Booleans need presence information and are handled in mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	mergeStrings(c.Theme.fields(), other.Theme.fields())
	mergeStrings(c.Keys.fields(), other.Keys.fields())

	if other.UX.SplashDuration > 0 {
		c.UX.SplashDuration = other.UX.SplashDuration
	}
	if other.UX.ErrorPause > 0 {
		c.UX.ErrorPause = other.UX.ErrorPause
	}
	if other.UX.ListRatio != 0 {
		c.UX.ListRatio = other.UX.ListRatio
	}
}

func mergeStrings(dst, src []*string) {
	for i := range dst {
		if *src[i] != "" {
			*dst[i] = *src[i]
		}
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "show_splash") {
		c.UX.ShowSplash = other.UX.ShowSplash
	}
	// A zero duration is a legitimate "no pause" when written explicitly.
	if yamlHasPath(doc, "ux", "splash_duration") {
		c.UX.SplashDuration = other.UX.SplashDuration
	}
	if yamlHasPath(doc, "ux", "error_pause") {
		c.UX.ErrorPause = other.UX.ErrorPause
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to Path.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("no config directory available")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// TasksPath returns the location of tasks.json.
func (c *Config) TasksPath() string {
	return filepath.Join(c.GetDataDir(), TasksFile)
}

// BackupDir returns the directory holding task backups.
func (c *Config) BackupDir() string {
	return filepath.Join(c.GetDataDir(), "backups")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
