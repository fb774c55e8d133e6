package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultMetadataKey = "updated"
	DefaultQuietWindow = 10 * time.Second
	DefaultHTTPPort    = 8686
)

// Config is the top-level vaultstamp configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// Vault is the root directory of the watched markdown vault.
	Vault string `yaml:"vault"`

	// MetadataKey is the frontmatter field stamped with the timestamp.
	MetadataKey string `yaml:"metadata_key"`

	// TimeFormat is a Moment-style pattern ("YYYY-MM-DD HH:mm:ss").
	// Empty means the built-in default pattern.
	TimeFormat string `yaml:"time_format"`

	// QuietWindow is how long a file must stay unedited before it is
	// stamped. Every edit inside the window restarts it.
	QuietWindow time.Duration `yaml:"quiet_window"`

	// ExcludedFolders lists vault-relative folder prefixes whose files are
	// never stamped.
	ExcludedFolders []string `yaml:"excluded_folders"`

	// Status configures the local status server.
	Status StatusConfig `yaml:"status"`
}

// StatusConfig holds the status/metrics server settings.
type StatusConfig struct {
	// HTTPPort is the port the JSON API, WebSocket feed and Prometheus
	// metrics listen on. 0 disables the status server.
	HTTPPort int `yaml:"http_port"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults; the excluded folder list
// is normalized here, once, so nothing downstream re-trims it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.ExcludedFolders = normalizeFolders(cfg.ExcludedFolders)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		MetadataKey: DefaultMetadataKey,
		QuietWindow: DefaultQuietWindow,
		Status: StatusConfig{
			HTTPPort: DefaultHTTPPort,
		},
	}
}

// normalizeFolders trims whitespace and path separators from each entry and
// drops empties, so the router compares clean prefixes.
func normalizeFolders(folders []string) []string {
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		f = strings.TrimSpace(f)
		f = strings.Trim(f, "/")
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Vault == "" {
		return fmt.Errorf("vault is required")
	}
	info, err := os.Stat(cfg.Vault)
	if err != nil {
		return fmt.Errorf("vault %q: %w", cfg.Vault, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault %q is not a directory", cfg.Vault)
	}
	if cfg.MetadataKey == "" {
		return fmt.Errorf("metadata_key must not be empty")
	}
	if strings.ContainsAny(cfg.MetadataKey, ":#\n") {
		return fmt.Errorf("metadata_key %q contains yaml-significant characters", cfg.MetadataKey)
	}
	if cfg.QuietWindow <= 0 {
		return fmt.Errorf("quiet_window must be positive")
	}
	if cfg.Status.HTTPPort < 0 || cfg.Status.HTTPPort > 65535 {
		return fmt.Errorf("status.http_port %d out of range", cfg.Status.HTTPPort)
	}
	return nil
}
