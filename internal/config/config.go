package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// AI document extraction
	Extraction ExtractionConfig `yaml:"extraction"`

	// Spreadsheet export
	Export ExportConfig `yaml:"export"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type ExtractionConfig struct {
	BaseURL   string `yaml:"base_url"`    // OpenAI-compatible endpoint; empty for api.openai.com
	Model     string `yaml:"model"`       // Vision-capable chat model
	APIKeyEnv string `yaml:"api_key_env"` // Env var holding the API key
	MaxTokens int    `yaml:"max_tokens"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"` // Directory for generated workbooks
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stderr, stdout, discard, or file path
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "tourbook")
}

// DefaultConfigPath returns ~/.config/tourbook/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "tourbook.db"),
		},
		Extraction: ExtractionConfig{
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			MaxTokens: 4096,
		},
		Export: ExportConfig{
			OutputDir: filepath.Join(dir, "exports"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: filepath.Join(dir, "tourbook.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// APIKey returns the extraction API key from the configured env var
func (c *Config) APIKey() string {
	if c.Extraction.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Extraction.APIKeyEnv)
}

// EnsureDirectories creates the database and export directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0755); err != nil {
		return err
	}

	return os.MkdirAll(c.Export.OutputDir, 0755)
}
