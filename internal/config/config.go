package config

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/domain"
)

// Config holds the application configuration
type Config struct {
	// GitHubToken authenticates GitHub API calls (optional; anonymous works
	// but is rate-limited)
	GitHubToken string `yaml:"github_token,omitempty"`

	// ADBPath is the adb binary used to reach the device
	ADBPath string `yaml:"adb_path,omitempty"`

	// Device is the adb device id passed via -s (empty lets adb pick)
	Device string `yaml:"device,omitempty"`

	// DownloadDir is where release APKs are written
	DownloadDir string `yaml:"download_dir,omitempty"`

	// StoreDir is where the durable repo list lives
	StoreDir string `yaml:"store_dir,omitempty"`

	// UserID identifies this user's sync document. Generated on first save
	// when absent.
	UserID string `yaml:"user_id,omitempty"`

	// FirestoreProject enables multi-device sync when set
	FirestoreProject string `yaml:"firestore_project,omitempty"`

	// FirestoreCredentials is base64-encoded service account JSON (optional;
	// application default credentials are used when empty)
	FirestoreCredentials string `yaml:"firestore_credentials,omitempty"`

	// configPath is the path this config was loaded from (not serialized)
	configPath string `yaml:"-"`
}

// Load reads configuration from the specified path. A missing file is not an
// error: every command except sync works without configuration, so absence
// degrades to defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getConfigPath()
	}

	cfg := &Config{configPath: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, domain.Errorf(domain.ErrInvalidConfig, "failed to read config: %v", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.Errorf(domain.ErrInvalidConfig, "failed to parse config: %v", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to its path using an atomic temp+rename write
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = getConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return domain.Errorf(domain.ErrInvalidConfig, "failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return domain.Errorf(domain.ErrInvalidConfig, "failed to marshal config: %v", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return domain.Errorf(domain.ErrInvalidConfig, "failed to write config: %v", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up on failure
		return domain.Errorf(domain.ErrInvalidConfig, "failed to save config: %v", err)
	}

	c.configPath = path
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.FirestoreCredentials != "" && c.FirestoreProject == "" {
		return domain.Errorf(domain.ErrInvalidConfig, "firestore_credentials set without firestore_project")
	}
	return nil
}

// applyEnv overrides config fields with environment variables if set
func (c *Config) applyEnv() {
	if token := os.Getenv(constants.GitHubTokenEnvVar); token != "" {
		c.GitHubToken = token
	}
}

// applyDefaults fills unset fields with defaults
func (c *Config) applyDefaults() {
	if c.ADBPath == "" {
		c.ADBPath = "adb"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = constants.DefaultDownloadDir()
	}
	if c.StoreDir == "" {
		c.StoreDir = constants.DefaultStoreDir()
	}
}

// EnsureUserID generates and persists a user id on first use. The id keys the
// remote sync document, so it must survive restarts.
func (c *Config) EnsureUserID() (string, error) {
	if c.UserID != "" {
		return c.UserID, nil
	}
	c.UserID = uuid.NewString()
	if err := c.Save(""); err != nil {
		return "", err
	}
	return c.UserID, nil
}

// SyncEnabled returns true when remote sync is configured
func (c *Config) SyncEnabled() bool {
	return c.FirestoreProject != ""
}

// Path returns the path this config was loaded from
func (c *Config) Path() string {
	return c.configPath
}

// getConfigPath returns the config path from env var or default
func getConfigPath() string {
	if path := os.Getenv(constants.ConfigEnvVar); path != "" {
		return path
	}
	return constants.DefaultConfigPath()
}

// ConfigPath returns the path that would be used for config
func ConfigPath(override string) string {
	if override != "" {
		return override
	}
	return getConfigPath()
}
