package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

const envPrefix = "LIQUIDCHAIN_"

// Env carries process level settings that are not part of a scenario.
type Env struct {
	DataDir string
	Addr    string
}

func DefaultEnv() Env {
	return Env{DataDir: ".liquidchain", Addr: ":8080"}
}

// LoadDotEnv reads .env files if present. A missing file is not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// ReadEnv returns process settings from LIQUIDCHAIN_* variables.
func ReadEnv() Env {
	e := DefaultEnv()
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		e.DataDir = v
	}
	if v := os.Getenv(envPrefix + "ADDR"); v != "" {
		e.Addr = v
	}
	return e
}

// ApplyEnv overrides scenario fields from LIQUIDCHAIN_* variables.
func (c *Config) ApplyEnv() error {
	if err := envFloat("DT", &c.Dt); err != nil {
		return err
	}
	if err := envFloat("DURATION", &c.Duration); err != nil {
		return err
	}
	if v := os.Getenv(envPrefix + "SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED=%q: %w", envPrefix, v, dynamo.ErrInvalidConfig)
		}
		c.Seed = n
	}
	if err := envInt("ITERATIONS", &c.Chain.Iterations); err != nil {
		return err
	}
	return envInt("FREE_POINTS", &c.Chain.FreePoints)
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s%s=%q: %w", envPrefix, key, v, dynamo.ErrInvalidConfig)
	}
	*dst = f
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s=%q: %w", envPrefix, key, v, dynamo.ErrInvalidConfig)
	}
	*dst = n
	return nil
}
