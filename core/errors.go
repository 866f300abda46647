package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gantrydev/gantry/runner"
)

const stderrExcerptLimit = 400

// ConfigError is the structured error kind for anticipated failures. It
// carries a human-readable message plus a details map (failing command,
// stderr excerpt, offending path) that the failure banner prints verbatim.
// Unexpected errors stay plain and are logged with full diagnostics instead.
type ConfigError struct {
	Message string
	Details map[string]string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError with an optional details map.
func NewConfigError(message string, details map[string]string) *ConfigError {
	return &ConfigError{Message: message, Details: details}
}

// WrapCommandError converts a runner failure into a ConfigError carrying the
// attempted command and a stderr excerpt when available.
func WrapCommandError(message string, err error) *ConfigError {
	details := make(map[string]string)
	var cmdErr *runner.CommandError
	if errors.As(err, &cmdErr) {
		details["command"] = cmdErr.Command
		if s := excerpt(cmdErr.Stderr); s != "" {
			details["stderr"] = s
		}
	}
	return &ConfigError{Message: message, Details: details, Err: err}
}

// DegradedError marks a step failure the user explicitly chose to continue
// past. The pipeline records the step as warned instead of aborting.
type DegradedError struct {
	Err error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("continuing despite failure: %v", e.Err)
}

func (e *DegradedError) Unwrap() error {
	return e.Err
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= stderrExcerptLimit {
		return s
	}
	return "…" + string(r[len(r)-stderrExcerptLimit:])
}
