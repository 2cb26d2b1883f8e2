package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Probata"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Rules struct {
		Path string `envconfig:"RULES_PATH" default:"rules.yaml"`
	}

	Snapshots struct {
		Dir string `envconfig:"SNAPSHOT_DIR" default:"snapshots"`
	}

	Deadlines struct {
		LookaheadDays int `envconfig:"DEADLINE_LOOKAHEAD_DAYS" default:"30"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
