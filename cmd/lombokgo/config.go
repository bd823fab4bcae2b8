package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Doctusoft/lombok-ds/logger"
	"github.com/Doctusoft/lombok-ds/processor"
)

// configName is the name of the configuration file, looked up in the
// working directory and its parents.
const configName = "lombok.yaml"

// setDefaults registers every configuration key, so that environment
// variables are seen by Unmarshal even when no file sets them.
func setDefaults(v *viper.Viper) {
	def := processor.DefaultConfig()
	v.SetDefault("enabled", []string{})
	v.SetDefault("disabled", []string{})
	v.SetDefault("release", def.Release)
	v.SetDefault("warnings-as-errors", def.WarningsAsErrors)
}

// loadConfig reads the processor configuration. Sources in increasing
// precedence: defaults, the configuration file, LOMBOK_* environment
// variables, then flags set on the command line.
func loadConfig(file string, flags *pflag.FlagSet) (processor.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LOMBOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, flag := range map[string]string{
		"enabled":            "enable",
		"disabled":           "disable",
		"release":            "release",
		"warnings-as-errors": "warnings-as-errors",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return processor.Config{}, errors.Wrapf(err, "binding flag --%s", flag)
			}
		}
	}

	if file == "" {
		file = findConfig()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return processor.Config{}, errors.Wrapf(err, "reading %s", file)
		}
		logger.Logger.Infow("loaded configuration", logger.FieldFile, file)
	}

	var cfg processor.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return processor.Config{}, errors.Wrap(err, "decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		return processor.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// findConfig walks up from the working directory and returns the first
// lombok.yaml found, or "" if there is none.
func findConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
