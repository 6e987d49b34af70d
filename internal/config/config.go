package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the user settings for a session.
type Config struct {
	Model     string `mapstructure:"model" yaml:"model"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APIBase   string `mapstructure:"api_base" yaml:"api_base"`
	ScopeRoot string `mapstructure:"scope_root" yaml:"scope_root"`
	Remote    string `mapstructure:"remote" yaml:"remote"`
	DiffLimit int    `mapstructure:"diff_limit" yaml:"diff_limit"`
	AI        AIMode `mapstructure:"ai" yaml:"ai"`
}

// AIMode controls whether the wizard offers AI message generation.
type AIMode string

const (
	AIAsk    AIMode = "ask"
	AIAlways AIMode = "always"
	AINever  AIMode = "never"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultScopeRoot  = "changeset"
	DefaultRemote     = "origin"
	DefaultDiffLimit  = 12000
	DefaultAIMode     = AIAsk
	DefaultConfigName = "config"
	DefaultConfigDir  = "comet"
	EnvPrefix         = "COMET"
)

var suggestedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"gpt-4.1",
}

// Keys lists every settable configuration key.
var Keys = []string{"model", "api_key", "api_base", "scope_root", "remote", "diff_limit", "ai"}

// ParseAIMode validates an ai setting.
func ParseAIMode(s string) (AIMode, error) {
	switch m := AIMode(strings.ToLower(strings.TrimSpace(s))); m {
	case AIAsk, AIAlways, AINever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid ai mode %q: must be one of ask, always, never", s)
	}
}

func setDefaults() {
	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("api_key", "")
	viper.SetDefault("api_base", "")
	viper.SetDefault("scope_root", DefaultScopeRoot)
	viper.SetDefault("remote", DefaultRemote)
	viper.SetDefault("diff_limit", DefaultDiffLimit)
	viper.SetDefault("ai", string(DefaultAIMode))
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/comet/config.yaml, falling back to ~/.config.
func DefaultConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to find home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, DefaultConfigDir, DefaultConfigName+".yaml"), nil
}

// InitConfig loads cfgFile, or the default config path when empty, creating
// the file with defaults when it does not exist yet.
func InitConfig(cfgFile string) error {
	configPath := cfgFile
	if configPath == "" {
		var err error
		configPath, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	setDefaults()

	// Env overrides are bound after a new file is written so they never end up on disk;
	// SaveValue keeps them off disk afterwards.
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeNewConfig(configPath); err != nil {
			return err
		}
	} else {
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configPath, err)
		}
		if err := ensurePrivate(configPath); err != nil {
			return err
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return nil
}

func writeNewConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return ensurePrivate(path)
}

// ensurePrivate restricts the config file to the owner since it may hold an API key.
func ensurePrivate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	if info.Mode().Perm() != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("unable to restrict config file permissions: %w", err)
		}
	}
	return nil
}

// GetConfig returns the effective configuration.
func GetConfig() (*Config, error) {
	setDefaults()
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	mode, err := ParseAIMode(string(cfg.AI))
	if err != nil {
		return nil, err
	}
	cfg.AI = mode
	if cfg.DiffLimit < 0 {
		return nil, fmt.Errorf("diff_limit must not be negative: %d", cfg.DiffLimit)
	}
	return cfg, nil
}

// ValidateValue checks that value is acceptable for key and returns it in the
// type it is stored as.
func ValidateValue(key, value string) (any, error) {
	if !slices.Contains(Keys, key) {
		return nil, fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}

	switch key {
	case "model", "remote":
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s cannot be empty", key)
		}
	case "diff_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("diff_limit must be a non-negative integer: %q", value)
		}
		return n, nil
	case "ai":
		mode, err := ParseAIMode(value)
		if err != nil {
			return nil, err
		}
		return string(mode), nil
	}
	return value, nil
}

// SaveValue writes one key to the config file and applies it to the running
// configuration. The file is rewritten from its own contents, so values that
// only come from the environment are never persisted.
func SaveValue(key string, value any) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		return errors.New("no config file loaded")
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	file.Set(key, value)
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	viper.Set(key, value)
	return ensurePrivate(path)
}

// ConfigFileUsed returns the path of the active config file.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// GetSuggestedModels returns commonly used model names; any non-empty name is accepted.
func GetSuggestedModels() []string {
	return suggestedModels
}

// MaskAPIKey hides all but the last four characters of key.
func MaskAPIKey(key string) string {
	if key == "" {
		return "<not set>"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
