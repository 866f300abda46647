package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/gantrydev/gantry/runner"
	"github.com/stretchr/testify/assert"
)

func TestWrapCommandError(t *testing.T) {
	cause := &runner.CommandError{
		Command: "npm install",
		Stderr:  "ECONNRESET\n",
		Err:     errors.New("exit status 1"),
	}
	cfg := WrapCommandError("install failed", cause)

	assert.Equal(t, "npm install", cfg.Details["command"])
	assert.Equal(t, "ECONNRESET", cfg.Details["stderr"])
	assert.Contains(t, cfg.Error(), "install failed")
	assert.ErrorIs(t, cfg, cause)

	var cmdErr *runner.CommandError
	assert.ErrorAs(t, cfg, &cmdErr)
}

func TestWrapCommandErrorPlainCause(t *testing.T) {
	cfg := WrapCommandError("command timed out", errors.New("context deadline exceeded"))
	assert.Empty(t, cfg.Details)
	assert.Contains(t, cfg.Error(), "command timed out")
}

func TestStderrExcerptTruncated(t *testing.T) {
	long := strings.Repeat("x", 1000)
	cause := &runner.CommandError{Command: "npm install", Stderr: long, Err: errors.New("exit status 1")}
	cfg := WrapCommandError("install failed", cause)

	assert.Less(t, len(cfg.Details["stderr"]), 1000)
	assert.True(t, strings.HasPrefix(cfg.Details["stderr"], "…"))
}

func TestConfigErrorMessage(t *testing.T) {
	cfg := NewConfigError("bad name", nil)
	assert.Equal(t, "bad name", cfg.Error())

	wrapped := &ConfigError{Message: "outer", Err: errors.New("inner")}
	assert.Equal(t, "outer: inner", wrapped.Error())
	assert.Equal(t, "inner", errors.Unwrap(wrapped).Error())
}

func TestDegradedErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	deg := &DegradedError{Err: inner}
	assert.ErrorIs(t, deg, inner)
	assert.Contains(t, deg.Error(), "boom")
}
