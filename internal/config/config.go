package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	dirName    = ".dataglance"
	envPrefix  = "DATAGLANCE"
	configName = "config"
)

// Global configuration structure.
type Global struct {
	// Web shell
	ListenAddr        string `mapstructure:"listen_addr" yaml:"listen_addr"`
	SessionSecret     string `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" yaml:"session_ttl_minutes"`
	MaxUploadMB       int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Views
	PreviewRows int `mapstructure:"preview_rows" yaml:"preview_rows"`
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	SeqURL    string `mapstructure:"seq_url" yaml:"seq_url"`
}

// SessionTTL is the idle lifetime of a web session; zero keeps sessions forever.
func (c *Global) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// MaxUploadBytes is the upload size cap; zero means unlimited.
func (c *Global) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 0
	}
	return int64(c.MaxUploadMB) << 20
}

// Dir returns ~/.dataglance.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataglance/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, configName+".yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// session_secret may be present
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl_minutes", 60)
	v.SetDefault("max_upload_mb", 0)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("chart_width", 640)
	v.SetDefault("chart_height", 480)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("seq_url", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no command can work with.
func (c *Global) Validate() error {
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must be >= 0, got %d", c.PreviewRows)
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return fmt.Errorf("chart size must be >= 0, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (use text or json)", c.LogFormat)
	}
	return nil
}
