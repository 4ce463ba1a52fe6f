// Package config loads CLI settings from flags, SQLPHRASE_* environment
// variables, .env files and a .sqlphrase.yaml file.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlphrase/internal/adapters/database"
)

// AppFs is the filesystem configuration is read from and written to.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName = ".sqlphrase"
	// EnvPrefix prefixes every environment variable the CLI reads.
	EnvPrefix = "SQLPHRASE"
)

// Config holds the application configuration
type Config struct {
	Dialect        string
	DatabaseURL    string
	Debug          bool
	MaxConnections int
	MaxIdleTime    int
	ConnectTimeout int
}

// Database returns the connection settings.
func (c *Config) Database() database.Config {
	return database.Config{
		Provider:       c.Dialect,
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
		MaxIdleTime:    c.MaxIdleTime,
		ConnectTimeout: c.ConnectTimeout,
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "postgres")
	v.SetDefault("debug", false)
	v.SetDefault("max_connections", 10)
	v.SetDefault("max_idle_time", 300)
	v.SetDefault("connect_timeout", 10)
}

// Load reads configuration into the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(AppFs, viper.GetViper(), "")
}

// LoadFrom reads configuration into v from fs. file overrides the config
// file search when set. A missing config file is not an error.
func LoadFrom(fs afero.Fs, v *viper.Viper, file string) (*Config, error) {
	v.SetFs(fs)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlphrase"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	SetDefaults(v)

	// .env first, then .env.local with higher priority
	if err := loadEnv(fs, ".env", false); err != nil {
		return nil, err
	}
	if err := loadEnv(fs, ".env.local", true); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, err
		}
	}

	cfg := &Config{
		Dialect:        v.GetString("dialect"),
		DatabaseURL:    v.GetString("database_url"),
		Debug:          v.GetBool("debug"),
		MaxConnections: v.GetInt("max_connections"),
		MaxIdleTime:    v.GetInt("max_idle_time"),
		ConnectTimeout: v.GetInt("connect_timeout"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

func loadEnv(fs afero.Fs, name string, override bool) error {
	f, err := fs.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return err
	}
	for k, val := range values {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg to ~/.config/sqlphrase/.sqlphrase.yaml and returns the
// path written.
func Save(cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return SaveTo(AppFs, filepath.Join(home, ".config", "sqlphrase"), cfg)
}

// SaveTo writes cfg as FileName.yaml under dir on fs.
func SaveTo(fs afero.Fs, dir string, cfg *Config) (string, error) {
	v := viper.New()
	v.SetFs(fs)
	v.Set("dialect", cfg.Dialect)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("debug", cfg.Debug)
	v.Set("max_connections", cfg.MaxConnections)
	v.Set("max_idle_time", cfg.MaxIdleTime)
	v.Set("connect_timeout", cfg.ConnectTimeout)

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName+".yaml")
	return path, v.WriteConfigAs(path)
}
