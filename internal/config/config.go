// Package config loads ucfgen settings from defaults, a YAML file, the
// environment and command-line flags, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/OpenTraceLab/ucfgen/pkg/constraint"
	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "UCFGEN_"

// DefaultConfigFiles are looked up in the working directory when no
// config file is given explicitly.
var DefaultConfigFiles = []string{"ucfgen.yaml", "ucfgen.yml"}

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// PowerConfig lists the substrings that classify a net as a rail.
type PowerConfig struct {
	VCC []string `koanf:"vcc"`
	GND []string `koanf:"gnd"`
}

// Config holds every setting the generator reads.
type Config struct {
	TargetDevice      string      `koanf:"target_device"`
	PassiveParts      []string    `koanf:"passive_parts"`
	ConnectorPrefixes []string    `koanf:"connector_prefixes"`
	ConnectorExcludes []string    `koanf:"connector_excludes"`
	Power             PowerConfig `koanf:"power"`
	PullThresholdOhms float64     `koanf:"pull_threshold_ohms"`
	NameWidth         int         `koanf:"name_width"`
	SemanticsPaths    []string    `koanf:"semantics_paths"`
	Verbose           bool        `koanf:"verbose"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"passive_parts":      true,
	"connector_prefixes": true,
	"connector_excludes": true,
	"power.vcc":          true,
	"power.gnd":          true,
	"semantics_paths":    true,
}

func defaults() map[string]interface{} {
	cv := model.DefaultConventions()
	return map[string]interface{}{
		"target_device":       model.DefaultTargetPattern,
		"passive_parts":       cv.PassiveParts,
		"connector_prefixes":  cv.ConnectorPrefixes,
		"connector_excludes":  cv.ConnectorExcludes,
		"power.vcc":           cv.VCCMarkers,
		"power.gnd":           cv.GNDMarkers,
		"pull_threshold_ohms": constraint.DefaultPullThresholdOhms,
		"name_width":          constraint.DefaultNameWidth,
		"semantics_paths":     []string{},
		"verbose":             false,
	}
}

// Load builds the configuration. cfgFile may be empty, in which case the
// default file names are tried in the working directory. flags may be nil;
// only flags the user changed override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		for _, name := range DefaultConfigFiles {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: error reading config file %s: %w", cfgFile, err)
		}
	}

	// UCFGEN_NAME_WIDTH -> name_width, UCFGEN_POWER_VCC -> power.vcc
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = envKey(key)
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode config: %w", err)
	}
	cfg.File = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "power_"); ok {
		return "power." + rest
	}
	return key
}

func flagKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	if rest, ok := strings.CutPrefix(key, "power_"); ok {
		return "power." + rest
	}
	return key
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the settings that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.TargetDevice == "" {
		return fmt.Errorf("%w: target_device is required", ErrInvalid)
	}
	if _, err := regexp.Compile(c.TargetDevice); err != nil {
		return fmt.Errorf("%w: target_device: %v", ErrInvalid, err)
	}
	if len(c.ConnectorPrefixes) == 0 {
		return fmt.Errorf("%w: connector_prefixes must not be empty", ErrInvalid)
	}
	if c.NameWidth < 0 {
		return fmt.Errorf("%w: name_width must not be negative", ErrInvalid)
	}
	if c.PullThresholdOhms <= 0 {
		return fmt.Errorf("%w: pull_threshold_ohms must be positive", ErrInvalid)
	}
	return nil
}

// Conventions returns the model conventions described by the config.
func (c *Config) Conventions() (model.Conventions, error) {
	re, err := regexp.Compile(c.TargetDevice)
	if err != nil {
		return model.Conventions{}, fmt.Errorf("%w: target_device: %v", ErrInvalid, err)
	}
	return model.Conventions{
		PassiveParts:      c.PassiveParts,
		ConnectorPrefixes: c.ConnectorPrefixes,
		ConnectorExcludes: c.ConnectorExcludes,
		VCCMarkers:        c.Power.VCC,
		GNDMarkers:        c.Power.GND,
		TargetDevice:      re,
	}, nil
}
