package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "GTERM_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// envSetters maps variable suffixes to the field they override.
var envSetters = map[string]func(c *Config, v string) error{
	"WIDTH":      func(c *Config, v string) error { return setInt(&c.Screen.Width, v) },
	"HEIGHT":     func(c *Config, v string) error { return setInt(&c.Screen.Height, v) },
	"SQUARE":     func(c *Config, v string) error { return setBool(&c.Screen.Square, v) },
	"BACKGROUND": func(c *Config, v string) error { c.Screen.Background = v; return nil },
	"BACKEND":    func(c *Config, v string) error { c.Output.Backend = strings.ToLower(v); return nil },
	"CHARSET":    func(c *Config, v string) error { c.Output.Charset = v; return nil },
	"LOG_LEVEL":  func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	"LOG_FILE":   func(c *Config, v string) error { c.Logging.File = v; return nil },
}

// ApplyEnv overlays GTERM_* variables onto c. A nil lookup uses
// os.LookupEnv. Empty values are treated as set.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for suffix, set := range envSetters {
		key := EnvPrefix + suffix
		val, ok := lookup(key)
		if !ok {
			continue
		}
		if err := set(c, val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setInt(dst *int, s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &ValidationError{Path: "env", Value: s, Message: "not an integer"}
	}
	*dst = n
	return nil
}

func setBool(dst *bool, s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0", "":
		*dst = false
	default:
		return &ValidationError{Path: "env", Value: s, Message: "not a boolean"}
	}
	return nil
}
