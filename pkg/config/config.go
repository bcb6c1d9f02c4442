package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Pinterest board downloader
type Config struct {
	// Pinterest host and request identity
	Pinterest PinterestConfig `yaml:"pinterest" json:"pinterest"`

	// Board feed pagination settings
	Feed FeedConfig `yaml:"feed" json:"feed"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PinterestConfig holds host and fixed request headers. The server gates
// the embedded-JSON profile page on looking like a browser request, so the
// Referer and User-Agent are always sent.
type PinterestConfig struct {
	Host      string `yaml:"host" json:"host"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// FeedConfig holds board feed pagination configuration
type FeedConfig struct {
	PageSize int `yaml:"page_size" json:"page_size"`
	// MaxPages bounds the bookmark loop so a server that never returns
	// the end sentinel cannot hang the client forever
	MaxPages int `yaml:"max_pages" json:"max_pages"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	RequestTimeout      time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	SaveFolder string `yaml:"save_folder" json:"save_folder"`
	// Force re-downloads resources whose files already exist
	Force bool `yaml:"force" json:"force"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pinterest: PinterestConfig{
			Host: "https://pinterest.com",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/81.0.4044.138 " +
				"Safari/537.36",
		},
		Feed: FeedConfig{
			PageSize: 25,
			MaxPages: 10000,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 3,
			RequestTimeout:      30 * time.Second,
		},
		Output: OutputConfig{
			SaveFolder: "download",
			Force:      false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("PINSCRAPER_HOST"); host != "" {
		c.Pinterest.Host = host
	}
	if userAgent := os.Getenv("PINSCRAPER_USER_AGENT"); userAgent != "" {
		c.Pinterest.UserAgent = userAgent
	}
	if saveFolder := os.Getenv("PINSCRAPER_SAVE_FOLDER"); saveFolder != "" {
		c.Output.SaveFolder = saveFolder
	}
	if concurrent := os.Getenv("PINSCRAPER_CONCURRENT_DOWNLOADS"); concurrent != "" {
		var val int
		fmt.Sscanf(concurrent, "%d", &val)
		if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}
	if maxPages := os.Getenv("PINSCRAPER_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Feed.MaxPages = val
		}
	}
	if logLevel := os.Getenv("PINSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".pinscraper.yaml",
		".pinscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "pinscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pinscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pinscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Pinterest.Host == "" {
		errs = append(errs, errors.New("pinterest host is required"))
	}
	if c.Pinterest.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.Feed.PageSize <= 0 {
		errs = append(errs, errors.New("feed page size must be positive"))
	}
	if c.Feed.MaxPages <= 0 {
		errs = append(errs, errors.New("feed max pages must be positive"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Output.SaveFolder == "" {
		errs = append(errs, errors.New("save folder is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if saveFolder, ok := flags["save-folder"].(string); ok && saveFolder != "" {
		c.Output.SaveFolder = saveFolder
	}
	if force, ok := flags["force"].(bool); ok {
		c.Output.Force = force
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.ConcurrentDownloads = concurrent
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.RequestTimeout = timeout
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Feed.MaxPages = maxPages
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pinscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
