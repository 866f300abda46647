package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gantrydev/gantry/core"
)

// Settings are the tool-level knobs, read from ~/.gantry/config.yaml with
// GANTRY_* environment variables layered on top. All of them have working
// defaults, so a missing config file is fine.
type Settings struct {
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	Retries        int           `mapstructure:"retries"`
	NodeFloor      int           `mapstructure:"node_floor"`
}

func DefaultSettings() *Settings {
	return &Settings{
		CommandTimeout: 10 * time.Minute,
		Retries:        2,
		NodeFloor:      18,
	}
}

// LoadSettings reads tool settings from the user's config directory.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".gantry"))
	}
	v.SetEnvPrefix("GANTRY")
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("command_timeout", defaults.CommandTimeout)
	v.SetDefault("retries", defaults.Retries)
	v.SetDefault("node_floor", defaults.NodeFloor)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}
	return s, nil
}

// LoadAnswers reads a complete answer set from a file and runs it through
// the same question graph the interactive wizard uses: the same relevance
// rules, defaults and validation apply, in the same order.
func LoadAnswers(path string) (*core.Request, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading answers file: %w", err)
	}

	req := core.DefaultRequest()
	for _, q := range core.Questions() {
		if !q.Relevant(req) {
			continue
		}
		value := strings.TrimSpace(v.GetString(q.Key))
		if value == "" {
			value = q.DefaultFor(req)
		}
		if err := q.Answer(req, value); err != nil {
			return nil, fmt.Errorf("invalid answers file: %w", err)
		}
	}
	return req, nil
}
