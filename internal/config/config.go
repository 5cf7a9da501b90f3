// Package config loads application configuration from an optional YAML file
// and environment variables. Command-line flags override anything loaded
// here.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tpdash/tprules/internal/dates"
)

// Config is the root application configuration.
type Config struct {
	Compile CompileConfig `yaml:"compile"`
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
}

// CompileConfig holds settings for the compile step.
type CompileConfig struct {
	ExcelPath  string `yaml:"excel_path"  env:"TPRULES_EXCEL"`
	OutputPath string `yaml:"output_path" env:"TPRULES_OUT" env-default:"rules.json"`
	// FYE is the fiscal year-end (YYYY-MM-DD) for relative deadlines.
	FYE   string `yaml:"fye"   env:"TPRULES_FYE"`
	Debug bool   `yaml:"debug" env:"TPRULES_DEBUG" env-default:"false"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"         env:"TPRULES_ADDR" env-default:"127.0.0.1:5500"`
	StaticDir   string `yaml:"static_dir"   env:"TPRULES_STATIC" env-default:"."`
	OpenBrowser bool   `yaml:"open_browser" env:"TPRULES_OPEN" env-default:"false"`
}

// DBConfig holds the snapshot database location. An empty path means the
// per-user default under the home directory.
type DBConfig struct {
	Path string `yaml:"path" env:"TPRULES_DB"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from TPRULES_CONFIG
// (fallback "./tprules.yaml"); a missing fallback file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("TPRULES_CONFIG")
	explicit := path != ""
	if !explicit {
		path = "./tprules.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values that would only fail later in less obvious ways.
func (c *Config) Validate() error {
	if c.Compile.FYE != "" {
		if _, err := dates.ParseFYE(c.Compile.FYE); err != nil {
			return fmt.Errorf("fye must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}
