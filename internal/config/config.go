// Package config loads and validates NoteBuilder configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Links   LinksConfig   `yaml:"links"`
	Report  ReportConfig  `yaml:"report"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ContentConfig locates the note tree.
type ContentConfig struct {
	Root string `yaml:"root"`
}

// OutputConfig controls rendered output.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// LinksConfig controls wikilink interpretation.
type LinksConfig struct {
	StubURL         string   `yaml:"stub_url"`
	ImageExtensions []string `yaml:"image_extensions"`
	Resolvers       []string `yaml:"resolvers"` // Custom resolver names; each must be registered
	Workers         int      `yaml:"workers"`   // Parallel note processing
}

// ReportConfig controls dead-link persistence.
type ReportConfig struct {
	Database string `yaml:"database"`
}

// EventsConfig controls dead-link event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig controls the Prometheus endpoint (watch mode only).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	return os.WriteFile(configPath, []byte(exampleConfig), 0o644)
}

const exampleConfig = `# NoteBuilder configuration
content:
  root: ./notes

output:
  directory: ./site
  clean: true

links:
  stub_url: /stubs/
  image_extensions: [jpg, jpeg, png, gif, bmp, webp]
  # Custom resolver names, e.g. [issue, wiki]. Each must have a registered
  # render strategy.
  resolvers: []
  workers: 4

report:
  database: ./notebuilder.db

events:
  enabled: false
  nats_url: nats://127.0.0.1:4222
  subject: notebuilder.deadlinks

metrics:
  enabled: false
  listen: :9100
`
