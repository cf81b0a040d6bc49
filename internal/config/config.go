// Package config loads the udpfetch configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kinderudp/paging-go"
	"github.com/kinderudp/paging-go/internal/logging"
	"github.com/kinderudp/paging-go/mssql"
)

// PasswordEnv supplies sqlserver.password when the file leaves it empty.
const PasswordEnv = "UDPFETCH_SQL_PASSWORD"

var validate = validator.New()

// Config is the top-level configuration structure for udpfetch.
type Config struct {
	SQLServer mssql.Config   `yaml:"sqlserver"`
	Paging    PagingConfig   `yaml:"paging"`
	Log       logging.Config `yaml:"log"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

// PagingConfig bounds page sizes.
type PagingConfig struct {
	PageSize    int `yaml:"page_size" validate:"min=1,ltefield=MaxPageSize"` // default 10000
	MaxPageSize int `yaml:"max_page_size" validate:"min=1"`                  // default 1000000
	SampleSize  int `yaml:"sample_size" validate:"min=1"`                    // default 100
}

// MetricsConfig controls the Prometheus endpoint served while fetching.
type MetricsConfig struct {
	Addr      string `yaml:"addr"`      // empty = disabled
	Namespace string `yaml:"namespace"` // default "udp"
}

// PageConfig converts the paging section.
func (p PagingConfig) PageConfig() *paging.PageConfig {
	return paging.NewPageConfig().
		WithDefaultSize(p.PageSize).
		WithMaxSize(p.MaxPageSize).
		WithSampleSize(p.SampleSize)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SQLServer.DialTimeout = 30 * time.Second
	cfg.SQLServer.MaxOpenConns = 4
	cfg.SQLServer.MaxIdleConns = 2
	cfg.Paging.PageSize = paging.DefaultPageSize
	cfg.Paging.MaxPageSize = paging.DefaultMaxPageSize
	cfg.Paging.SampleSize = paging.SampleSize
	cfg.Log = logging.DefaultConfig()
	cfg.Metrics.Namespace = "udp"
	return cfg
}

// Load reads the YAML config at path over Default. An empty path returns
// the defaults. The result is not validated; call Validate once flags have
// been applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if cfg.SQLServer.Password == "" {
		cfg.SQLServer.Password = os.Getenv(PasswordEnv)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
