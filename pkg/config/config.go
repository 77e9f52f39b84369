package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDirName is the vault directory created under the user's home
	DefaultDirName = ".vaultsafe"
	// ConfigFileName is the YAML config file inside the vault directory
	ConfigFileName = "vaultsafe.yml"
	// DatabaseFileName is the default SQLite database file
	DatabaseFileName = "vaultsafe.db"
	// SessionFileName is the persisted unlock token
	SessionFileName = ".session"
	// AuditLogFileName is the default audit sink
	AuditLogFileName = "audit.log"
)

// VaultSafeConfig holds all VaultSafe configuration settings
type VaultSafeConfig struct {
	// DatabaseURL selects the backing database. Empty means the local
	// SQLite file under the vault directory; a postgres:// URL selects
	// PostgreSQL.
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// Host is the bind address for the web interface
	Host string `yaml:"host" json:"host"`

	// Port is the listen port for the web interface
	Port int `yaml:"port" json:"port"`

	// AuditEnabled turns the audit log on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AuditLog overrides the audit log path (defaults to audit.log in the
	// vault directory)
	AuditLog string `yaml:"audit_log" json:"audit_log"`

	// ServerSessionTTL is the web session lifetime in seconds
	ServerSessionTTL int `yaml:"server_session_ttl" json:"server_session_ttl"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors VaultSafeConfig with pointer fields so that values the
// file leaves out are distinguishable from explicit zero values.
type fileConfig struct {
	DatabaseURL      *string `yaml:"database_url"`
	Host             *string `yaml:"host"`
	Port             *int    `yaml:"port"`
	AuditEnabled     *bool   `yaml:"audit_enabled"`
	AuditLog         *string `yaml:"audit_log"`
	ServerSessionTTL *int    `yaml:"server_session_ttl"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *VaultSafeConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *VaultSafeConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// Dir returns the vault directory: VAULTSAFE_DIR when set, otherwise
// ~/.vaultsafe.
func Dir() string {
	if dir := os.Getenv("VAULTSAFE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// EnsureDir creates the vault directory if needed and returns its path. The
// directory is private to the user.
func EnsureDir() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create vault directory %s: %w", dir, err)
	}
	return dir, nil
}

// DatabasePath returns the default SQLite database file path.
func DatabasePath() string {
	return filepath.Join(Dir(), DatabaseFileName)
}

// SessionFilePath returns the persisted unlock token path.
func SessionFilePath() string {
	return filepath.Join(Dir(), SessionFileName)
}

// newDefault returns a config with default values
func newDefault() *VaultSafeConfig {
	return &VaultSafeConfig{
		DatabaseURL:      "",
		Host:             "127.0.0.1",
		Port:             8000,
		AuditEnabled:     true,
		AuditLog:         "",
		ServerSessionTTL: 900,
		sources:          make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*VaultSafeConfig, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("VAULTSAFE_CONFIG_PATH")
	if configPath == "" {
		configPath = Dir()
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "host", "port",
		"audit_enabled", "audit_log", "server_session_ttl",
	}
}

func (c *VaultSafeConfig) applyFileConfig(file *fileConfig) {
	if file.DatabaseURL != nil {
		c.DatabaseURL = *file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.Host != nil {
		c.Host = *file.Host
		c.sources["host"] = "file"
	}
	if file.Port != nil {
		c.Port = *file.Port
		c.sources["port"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if file.AuditLog != nil {
		c.AuditLog = *file.AuditLog
		c.sources["audit_log"] = "file"
	}
	if file.ServerSessionTTL != nil {
		c.ServerSessionTTL = *file.ServerSessionTTL
		c.sources["server_session_ttl"] = "file"
	}
}

func (c *VaultSafeConfig) applyEnvConfig() {
	if val := os.Getenv("VAULTSAFE_DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	} else if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("VAULTSAFE_HOST"); val != "" {
		c.Host = val
		c.sources["host"] = "environment"
	}
	if val := os.Getenv("VAULTSAFE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("VAULTSAFE_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("VAULTSAFE_AUDIT_LOG"); val != "" {
		c.AuditLog = val
		c.sources["audit_log"] = "environment"
	}
	if val := os.Getenv("VAULTSAFE_SERVER_SESSION_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ServerSessionTTL = i
			c.sources["server_session_ttl"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *VaultSafeConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *VaultSafeConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ResolvedDatabaseURL returns the configured database URL, falling back to
// the local SQLite file.
func (c *VaultSafeConfig) ResolvedDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return DatabasePath()
}

// ResolvedAuditLog returns the configured audit log path, falling back to
// audit.log in the vault directory.
func (c *VaultSafeConfig) ResolvedAuditLog() string {
	if c.AuditLog != "" {
		return c.AuditLog
	}
	return filepath.Join(Dir(), AuditLogFileName)
}

// Addr returns the host:port the web interface binds to.
func (c *VaultSafeConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SessionTTL returns the web session lifetime as a duration.
func (c *VaultSafeConfig) SessionTTL() time.Duration {
	return time.Duration(c.ServerSessionTTL) * time.Second
}

// Validate validates the configuration
func (c *VaultSafeConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.ServerSessionTTL <= 0 {
		return fmt.Errorf("server_session_ttl must be positive, got %d", c.ServerSessionTTL)
	}

	if c.DatabaseURL != "" && strings.Contains(c.DatabaseURL, "://") {
		scheme := strings.SplitN(c.DatabaseURL, "://", 2)[0]
		switch scheme {
		case "postgres", "postgresql", "sqlite":
		default:
			return fmt.Errorf("unsupported database_url scheme: %s", scheme)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *VaultSafeConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "database_url", Value: c.DatabaseURL, Source: c.Source("database_url")},
		{Name: "host", Value: c.Host, Source: c.Source("host")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "audit_log", Value: c.AuditLog, Source: c.Source("audit_log")},
		{Name: "server_session_ttl", Value: strconv.Itoa(c.ServerSessionTTL), Source: c.Source("server_session_ttl")},
	}
}

// FormatText returns a text representation of the configuration
func (c *VaultSafeConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *VaultSafeConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
