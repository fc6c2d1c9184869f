// Package config loads runtime settings from config.yaml, a .env file and
// RESUMEGEN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// RESUMEGEN_SERVER_ADDR.
const EnvPrefix = "RESUMEGEN"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Templates TemplatesConfig `mapstructure:"templates"`
	AutoSave  AutoSaveConfig  `mapstructure:"autosave"`
	Export    ExportConfig    `mapstructure:"export"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
}

type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // memory, file or redis
	Dir    string      `mapstructure:"dir"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type TemplatesConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

type AutoSaveConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type ExportConfig struct {
	ChromePath  string        `mapstructure:"chrome_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	OutputDir   string        `mapstructure:"output_dir"`
	PageFormat  string        `mapstructure:"page_format"`
	Orientation string        `mapstructure:"orientation"`
	MarginMm    float64       `mapstructure:"margin_mm"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Options tune where Load looks.
type Options struct {
	// ConfigFile, when set, is read instead of searching Paths.
	ConfigFile string
	Paths      []string
	EnvFiles   []string
}

// DefaultPaths are searched for config.yaml.
func DefaultPaths() []string {
	paths := []string{".", "./config"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".resumegen"))
	}
	return paths
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "resumegen:")
	v.SetDefault("templates.path", "")
	v.SetDefault("templates.url", "")
	v.SetDefault("autosave.delay", 5*time.Second)
	v.SetDefault("export.chrome_path", "")
	v.SetDefault("export.timeout", 60*time.Second)
	v.SetDefault("export.output_dir", "")
	v.SetDefault("export.page_format", "a4")
	v.SetDefault("export.orientation", "portrait")
	v.SetDefault("export.margin_mm", 10.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads .env files, then config.yaml, then environment overrides. A
// missing config file or .env file is not an error.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		paths := opts.Paths
		if len(paths) == 0 {
			paths = DefaultPaths()
		}
		for _, path := range paths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown storage drivers.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case DriverMemory, DriverFile, DriverRedis:
		c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
