// Package config loads pdo-go CLI settings from flags, environment, dotenv
// files and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/query/cache"
	"github.com/satishbabariya/pdo-go/runtime/client"
	"github.com/satishbabariya/pdo-go/runtime/pdo"
)

// AppFs is the filesystem configuration and dotenv files are read from.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Provider         string
	DatabaseURL      string
	MaxConnections   int
	MaxIdleTime      time.Duration
	ConnectTimeout   time.Duration
	FetchMode        string
	Case             string
	StringifyFetches bool
	StringifyParams  bool
	CacheSize        int
	CacheTTL         time.Duration
	Debug            bool
}

// Load reads configuration into v. An explicit configFile must exist;
// otherwise .pdo-go.yaml is searched for and may be absent.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetFs(AppFs)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".pdo-go")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "pdo-go"))
	}

	v.SetEnvPrefix("PDO_GO")
	v.AutomaticEnv()

	v.SetDefault("provider", "sqlite")
	v.SetDefault("max_connections", 10)
	v.SetDefault("max_idle_time", 5*time.Minute)
	v.SetDefault("connect_timeout", 10*time.Second)
	v.SetDefault("fetch_mode", "assoc")
	v.SetDefault("case", "natural")
	v.SetDefault("cache_size", cache.DefaultSize)
	v.SetDefault("cache_ttl", time.Duration(0))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// .env.local takes priority over .env
	if err := loadDotenv(".env", false); err != nil {
		return nil, err
	}
	if err := loadDotenv(".env.local", true); err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:         v.GetString("provider"),
		DatabaseURL:      v.GetString("database_url"),
		MaxConnections:   v.GetInt("max_connections"),
		MaxIdleTime:      v.GetDuration("max_idle_time"),
		ConnectTimeout:   v.GetDuration("connect_timeout"),
		FetchMode:        v.GetString("fetch_mode"),
		Case:             v.GetString("case"),
		StringifyFetches: v.GetBool("stringify_fetches"),
		StringifyParams:  v.GetBool("stringify_params"),
		CacheSize:        v.GetInt("cache_size"),
		CacheTTL:         v.GetDuration("cache_ttl"),
		Debug:            v.GetBool("debug"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// loadDotenv exports the variables of a dotenv file. Existing variables win
// unless overload is set. A missing file is not an error.
func loadDotenv(name string, overload bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for k, val := range vars {
		if _, set := os.LookupEnv(k); set && !overload {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// DatabaseConfig returns the connection settings.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Provider:       c.Provider,
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
		MaxIdleTime:    int(c.MaxIdleTime / time.Second),
		ConnectTimeout: int(c.ConnectTimeout / time.Second),
	}
}

// ClientOptions translates statement defaults into client options.
func (c *Config) ClientOptions() ([]client.Option, error) {
	mode, err := pdo.ParseFetchMode(c.FetchMode)
	if err != nil {
		return nil, err
	}
	cs, err := pdo.ParseCase(c.Case)
	if err != nil {
		return nil, err
	}
	return []client.Option{
		client.WithAttribute(pdo.AttrDefaultFetchMode, mode),
		client.WithAttribute(pdo.AttrCase, cs),
		client.WithAttribute(pdo.AttrStringifyFetches, c.StringifyFetches),
		client.WithAttribute(pdo.AttrStringifyParams, c.StringifyParams),
		client.WithRewriteCache(cache.New(c.CacheSize, c.CacheTTL)),
	}, nil
}
