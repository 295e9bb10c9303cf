// Package config loads settings from flags, KLONDIKE_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigConfigFile       = "config-file"
	ConfigDraw             = "draw"
	ConfigTimeBudget       = "time-budget"
	ConfigPollInterval     = "poll-interval"
	ConfigTTMemoryFraction = "tt-memory-fraction"
	ConfigThreads          = "threads"
	ConfigMaxAttempts      = "max-attempts"
	ConfigSolvableDeadline = "solvable-deadline"
	ConfigNatsURL          = "nats-url"
	ConfigDBPath           = "db-path"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
)

type Config struct {
	*viper.Viper
	args []string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("klondike", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "optional config file (yaml, json or toml)")
	fs.Int(ConfigDraw, 3, "draw arity, 1 or 3")
	fs.Duration(ConfigTimeBudget, 120*time.Millisecond, "solver time budget per deal")
	fs.Int(ConfigPollInterval, 1024, "nodes expanded between deadline checks")
	fs.Float64(ConfigTTMemoryFraction, 0, "cap the transposition table to this share of memory; 0 is unbounded")
	fs.Int(ConfigThreads, runtime.NumCPU(), "worker goroutines for batch solving")
	fs.Int(ConfigMaxAttempts, 120, "deals to try when looking for a solvable one")
	fs.Duration(ConfigSolvableDeadline, 10*time.Second, "overall deadline when looking for a solvable deal")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server for the bot")
	fs.String(ConfigDBPath, "", "SQLite file caching solved deals; empty disables the cache")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	fs.String(ConfigMemProfile, "", "write a memory profile here")
	// stop at the first shell command word
	fs.SetInterspersed(false)
	return fs
}

// DefaultConfig returns a config with every default and no flags or
// environment applied.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	fs := flagSet()
	c.BindPFlags(fs)
	return c
}

// Load parses args. Leading --flags configure the program; everything from
// the first non-flag argument on is kept in Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("KLONDIKE")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	if d := c.GetInt(ConfigDraw); d != 1 && d != 3 {
		return fmt.Errorf("draw must be 1 or 3, got %d", d)
	}
	return nil
}

// Args are the positional arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns all settings with credentials removed from
// the NATS URL, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if u, err := url.Parse(c.GetString(ConfigNatsURL)); err == nil && u.User != nil {
		u.User = url.User("xxx")
		settings[ConfigNatsURL] = u.String()
	}
	return settings
}
