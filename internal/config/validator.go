package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sghaida/odistage/internal/logging"
)

// FieldError is one rejected setting.
type FieldError struct {
	Key    string // dotted viper key, e.g. "logging.level"
	Value  any
	Reason string
}

func (e FieldError) Error() string {
	return e.Key + " " + e.Reason + ", got " + strconv.Quote(fmt.Sprint(e.Value))
}

// FieldErrors is every setting a Load rejected, in rule order.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes each FieldError to errors.As.
func (e FieldErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, fe := range e {
		out[i] = fe
	}
	return out
}

// rule inspects one setting and reports a problem, or nil.
type rule func(*Config) *FieldError

var rules = []rule{
	func(c *Config) *FieldError {
		if c.Registry.MaxConcurrency < 0 {
			return &FieldError{Key: "registry.max_concurrency", Value: c.Registry.MaxConcurrency, Reason: "must not be negative"}
		}
		return nil
	},
	oneOf("logging.level", func(c *Config) string { return c.Logging.Level },
		logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError),
	oneOf("logging.format", func(c *Config) string { return c.Logging.Format },
		logging.FormatAuto, logging.FormatText, logging.FormatJSON),
	func(c *Config) *FieldError {
		if strings.TrimSpace(c.Generator.DIImport) == "" {
			return &FieldError{Key: "generator.di_import", Value: c.Generator.DIImport, Reason: "must not be empty"}
		}
		return nil
	},
}

// oneOf accepts any of allowed, ignoring case.
func oneOf(key string, get func(*Config) string, allowed ...string) rule {
	return func(c *Config) *FieldError {
		v := get(c)
		for _, a := range allowed {
			if strings.EqualFold(v, a) {
				return nil
			}
		}
		lower := make([]string, len(allowed))
		for i, a := range allowed {
			lower[i] = strings.ToLower(a)
		}
		return &FieldError{Key: key, Value: v, Reason: "must be one of " + strings.Join(lower, "|")}
	}
}

// Validate runs every rule and returns FieldErrors, or nil when c is usable.
func (c *Config) Validate() error {
	var errs FieldErrors
	for _, check := range rules {
		if fe := check(c); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
