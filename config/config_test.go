package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantrydev/gantry/core"
)

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAnswers(t *testing.T) {
	path := writeAnswers(t, `
project_name: blog-demo
template: blog
framework: react
tailwind: true
sanity: true
medusa: false
deployment: netlify
`)

	req, err := LoadAnswers(path)
	require.NoError(t, err)

	assert.Equal(t, "blog-demo", req.ProjectName)
	assert.Equal(t, core.TemplateBlog, req.Template)
	assert.Equal(t, core.FrameworkReact, req.Framework)
	assert.True(t, req.Tailwind)
	assert.True(t, req.Sanity)
	assert.False(t, req.Medusa)
	assert.Equal(t, core.DeployNetlify, req.Deployment)
}

func TestLoadAnswersAppliesDefaults(t *testing.T) {
	path := writeAnswers(t, `
project_name: plain-site
`)

	req, err := LoadAnswers(path)
	require.NoError(t, err)

	assert.Equal(t, core.TemplateMinimal, req.Template)
	assert.Equal(t, core.FrameworkNone, req.Framework)
	assert.True(t, req.Tailwind, "tailwind defaults to yes")
	assert.False(t, req.Sanity)
	assert.False(t, req.Medusa)
	assert.Equal(t, core.DeployNone, req.Deployment)
}

func TestLoadAnswersBackendChain(t *testing.T) {
	path := writeAnswers(t, `
project_name: shop
medusa: true
medusa_mode: full
database: postgres
database_url: postgres://localhost:5432/store
database_reachable: true
`)

	req, err := LoadAnswers(path)
	require.NoError(t, err)

	assert.Equal(t, core.MedusaFull, req.MedusaMode)
	// backend_dir falls back to the derived default
	assert.Equal(t, "shop-backend", req.BackendDir)
	assert.Equal(t, core.DatabasePostgres, req.Database)
	assert.True(t, req.DatabaseReachable)
}

func TestLoadAnswersValidatesThroughQuestionGraph(t *testing.T) {
	path := writeAnswers(t, `
project_name: Bad Name
`)

	_, err := LoadAnswers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_name")
}

func TestLoadAnswersRejectsUnknownChoice(t *testing.T) {
	path := writeAnswers(t, `
project_name: site
template: fancy
`)

	_, err := LoadAnswers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestLoadAnswersMissingFile(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, s.CommandTimeout)
	assert.Equal(t, 2, s.Retries)
	assert.Equal(t, 18, s.NodeFloor)
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GANTRY_RETRIES", "5")
	t.Setenv("GANTRY_COMMAND_TIMEOUT", "30s")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, 5, s.Retries)
	assert.Equal(t, 30*time.Second, s.CommandTimeout)
}

func TestLoadSettingsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".gantry")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("node_floor: 20\n"), 0644))

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 20, s.NodeFloor)
}
