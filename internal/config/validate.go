package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError holds details about a configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// HasErrors returns true if there are any validation errors.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// Validate checks a config for errors and returns every problem found.
func Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "job name is required"})
	}
	if strings.TrimSpace(cfg.Job) == "" {
		errs = append(errs, ValidationError{Field: "job", Message: "job entry point is required"})
	}
	if strings.TrimSpace(cfg.Interpreter) == "" {
		errs = append(errs, ValidationError{Field: "interpreter", Message: "interpreter must not be blank"})
	}
	for i, a := range cfg.Args {
		if a == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("args[%d]", i), Message: "argument must not be empty"})
		}
	}
	for k := range cfg.Env {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, ValidationError{Field: "env", Message: "environment variable name must not be empty"})
		}
	}
	if cfg.Every != "" {
		if d, err := time.ParseDuration(cfg.Every); err != nil {
			errs = append(errs, ValidationError{Field: "every", Message: fmt.Sprintf("invalid duration %q", cfg.Every)})
		} else if d <= 0 {
			errs = append(errs, ValidationError{Field: "every", Message: "interval must be positive"})
		}
	}

	return errs
}
