// Package config loads synthesis defaults from an optional YAML file and
// an optional .env file, so the CLI in cmd/qrotsynth doesn't force every
// knob onto the command line. Precedence, lowest to highest: built-in
// defaults, .env, --config file, explicit CLI flags.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config mirrors optimize.Config plus the CLI-only I/O knobs.
type Config struct {
	Precision  int    `yaml:"precision"`
	CostSingle int    `yaml:"cost_single"`
	SameAngle  bool   `yaml:"same_angle"`
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	Report     string `yaml:"report"`
	Verbose    bool   `yaml:"verbose"`
}

// Default returns the built-in defaults, matching original_source/src/
// main.cpp's boost::program_options default values (--prec 30, --cost 1000).
func Default() Config {
	return Config{
		Precision:  30,
		CostSingle: 1000,
		SameAngle:  false,
	}
}

// LoadEnv applies QROTSYNTH_-prefixed environment variables, loading them
// from a .env file first if one exists at path. A missing file is not an
// error; only a malformed one that exists is reported.
func (c *Config) LoadEnv(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("config: loading .env %q: %w", path, err)
			}
		}
	}

	if v, ok := os.LookupEnv("QROTSYNTH_PRECISION"); ok {
		if _, err := fmt.Sscanf(v, "%d", &c.Precision); err != nil {
			return fmt.Errorf("config: QROTSYNTH_PRECISION: %w", err)
		}
	}
	if v, ok := os.LookupEnv("QROTSYNTH_COST_SINGLE"); ok {
		if _, err := fmt.Sscanf(v, "%d", &c.CostSingle); err != nil {
			return fmt.Errorf("config: QROTSYNTH_COST_SINGLE: %w", err)
		}
	}
	if v, ok := os.LookupEnv("QROTSYNTH_SAME_ANGLE"); ok {
		c.SameAngle = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("QROTSYNTH_INPUT"); ok {
		c.Input = v
	}
	if v, ok := os.LookupEnv("QROTSYNTH_OUTPUT"); ok {
		c.Output = v
	}
	return nil
}

// LoadFile merges a YAML config file's fields over the receiver's
// current values. Fields the file does not mention leave the receiver
// unchanged, since yaml.Unmarshal decodes into the existing struct; a
// field the file sets, even to a zero value, overwrites it.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return nil
}
