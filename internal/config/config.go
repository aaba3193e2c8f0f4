package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "docsite.yaml"

// ErrConfigNotFound is returned by Load when the file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config represents the application configuration.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Navigation NavigationConfig `yaml:"navigation"`
	Source     SourceConfig     `yaml:"source"`
	Render     RenderConfig     `yaml:"render"`
	Build      BuildConfig      `yaml:"build"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Serve      ServeConfig      `yaml:"serve"`
}

// SiteConfig describes the product the documentation belongs to.
type SiteConfig struct {
	Product  string `yaml:"product"`
	SiteName string `yaml:"site_name"`
	// Category is the URL and directory prefix of the page tree (e.g. "docs").
	Category string `yaml:"category"`
}

// ContentConfig locates the source tree. Dir and PartialsDir are relative to Root.
type ContentConfig struct {
	Root        string `yaml:"root"`
	Dir         string `yaml:"dir"`
	PartialsDir string `yaml:"partials_dir"`
}

// NavigationConfig points at the manually curated sidebar order table.
// An empty OrderFile leaves the sidebar in path order.
type NavigationConfig struct {
	OrderFile string `yaml:"order_file"`
}

// SourceConfig controls the "view source" link of every page.
type SourceConfig struct {
	Host         string `yaml:"host"`
	Repo         string `yaml:"repo"`
	Branch       string `yaml:"branch"`
	Prefix       string `yaml:"prefix"`
	DetectBranch bool   `yaml:"detect_branch"`
}

// RenderConfig tunes the markdown pipeline.
type RenderConfig struct {
	HighlightStyle string `yaml:"highlight_style"`
}

// BuildConfig controls page generation.
type BuildConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port    int  `yaml:"port"`
	Metrics bool `yaml:"metrics"`

	// RebuildInterval adds a full rebuild on a fixed schedule, for content
	// trees where file events are unreliable (network mounts). Zero disables it.
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
}

// DocsRoot is the directory holding the page tree (e.g. content/docs).
func (c *Config) DocsRoot() string {
	return filepath.Join(c.Content.Root, c.Content.Dir, c.Site.Category)
}

// PartialsRoot is the only directory includes are resolved against.
func (c *Config) PartialsRoot() string {
	return filepath.Join(c.Content.Root, c.Content.PartialsDir)
}

// OrderPath returns the order table location, or "" when none is configured.
func (c *Config) OrderPath() string {
	if c.Navigation.OrderFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Navigation.OrderFile) {
		return c.Navigation.OrderFile
	}
	return filepath.Join(c.Content.Root, c.Navigation.OrderFile)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to Default when the file does
// not exist. The boolean reports whether a file was read.
func LoadOrDefault(configPath string) (*Config, bool, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
