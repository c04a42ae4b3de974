// Package config handles the XDG configuration directory, file paths and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv file inside the config directory.
	EnvFile = ".env"

	// SessionDir holds the session slot. Logout removes it wholesale.
	SessionDir = "session"

	// TokenFile is the stored bearer token filename inside SessionDir.
	TokenFile = "token"

	// EnvPrefix prefixes environment overrides (TASKDASH_API_URL, ...).
	EnvPrefix = "TASKDASH"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultTimeout     = 10 * time.Second
	DefaultRedisPrefix = "taskdash:session:"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIURL is the base URL of the task service.
	APIURL string

	// Timeout bounds every API request.
	Timeout time.Duration

	// SessionBackend selects where the token slot lives: "file" or "redis".
	SessionBackend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// MetricsFile, when set, receives request metrics in text exposition format at exit.
	MetricsFile string
}

// New creates a new Config with the default or specified config directory
// and loads settings from config.yaml, .env and the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdash or $HOME/.config/taskdash.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// load merges defaults, config.yaml, .env and TASKDASH_* variables.
// Variables already present in the environment win over .env entries.
func (c *Config) load() error {
	if _, err := os.Stat(c.EnvPath()); err == nil {
		if err := godotenv.Load(c.EnvPath()); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("session_backend", BackendFile)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", DefaultRedisPrefix)
	v.SetDefault("metrics_file", "")

	if _, err := os.Stat(c.ConfigPath()); err == nil {
		v.SetConfigFile(c.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	c.APIURL = strings.TrimRight(v.GetString("api_url"), "/")
	c.Timeout = v.GetDuration("timeout")
	c.SessionBackend = strings.ToLower(v.GetString("session_backend"))
	c.RedisAddr = v.GetString("redis_addr")
	c.RedisPassword = v.GetString("redis_password")
	c.RedisDB = v.GetInt("redis_db")
	c.RedisPrefix = v.GetString("redis_prefix")
	c.MetricsFile = v.GetString("metrics_file")

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	switch c.SessionBackend {
	case BackendFile:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("session_backend is redis but redis_addr is not set")
		}
	default:
		return fmt.Errorf("unknown session_backend: %s", c.SessionBackend)
	}
	return nil
}

// ConfigPath returns the path to the optional config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnvPath returns the path to the optional .env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// SessionPath returns the directory holding the session slot.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionDir)
}

// TokenPath returns the path to the stored bearer token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.SessionPath(), TokenFile)
}
