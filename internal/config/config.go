package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"kpi-dashboard/internal/util"
)

const (
	StorageInMemory = "inmemory"
	StorageSQLite   = "sqlite"
)

// Config holds every configurable value for the dashboard API.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Storage         string        `mapstructure:"storage"`
	DBPath          string        `mapstructure:"db_path"`
	DataDir         string        `mapstructure:"data_dir"`
	KpiFile         string        `mapstructure:"kpi_file"`
	LogDir          string        `mapstructure:"log_dir"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	LogStderr       bool          `mapstructure:"log_stderr"`
	SeedTargets     bool          `mapstructure:"seed_targets"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KpiPath is the catalog fixture location. A relative KpiFile lives in DataDir.
func (c *Config) KpiPath() string {
	if filepath.IsAbs(c.KpiFile) {
		return c.KpiFile
	}
	return filepath.Join(c.DataDir, c.KpiFile)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("storage", StorageInMemory)
	v.SetDefault("db_path", "../db/dashboard.db")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("kpi_file", "kpis.json")
	v.SetDefault("log_dir", ".."+string(filepath.Separator)+"log")
	v.SetDefault("log_file", "webService.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_stderr", false)
	v.SetDefault("seed_targets", true)
	v.SetDefault("shutdown_timeout", 25*time.Second)
}

// Load reads configuration from, in decreasing priority:
//  1. DASHBOARD_* environment variables (a .env file is loaded into the
//     environment first, without overriding what is already set)
//  2. config.yaml in configDir, if present
//  3. built-in defaults
func Load(configDir string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}

	switch c.Storage {
	case StorageInMemory:
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path must be set for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage)
	}

	if _, err := util.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
