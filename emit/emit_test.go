package emit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageManifest(t *testing.T) {
	existing := []byte(`{
  "name": "temp",
  "type": "module",
  "dependencies": {
    "astro": "^5.0.0"
  }
}`)

	out, err := PackageManifest(existing, "blog-demo")
	require.NoError(t, err)

	var manifest map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &manifest))

	assert.Equal(t, "blog-demo", manifest["name"])
	assert.Equal(t, "0.1.0", manifest["version"])
	assert.Equal(t, "MIT", manifest["license"])
	assert.Contains(t, manifest["description"], "blog-demo")

	scripts, ok := manifest["scripts"].(map[string]interface{})
	require.True(t, ok)
	for _, name := range []string{"dev", "build", "preview", "astro", "check", "sync"} {
		assert.Contains(t, scripts, name)
	}

	// untouched fields survive the rewrite
	assert.Equal(t, "module", manifest["type"])
	deps, ok := manifest["dependencies"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "^5.0.0", deps["astro"])
}

func TestPackageManifestKeepsForeignScripts(t *testing.T) {
	existing := []byte(`{"name": "temp", "scripts": {"start": "node server.js"}}`)

	out, err := PackageManifest(existing, "shop")
	require.NoError(t, err)

	var manifest map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &manifest))

	scripts := manifest["scripts"].(map[string]interface{})
	assert.Equal(t, "node server.js", scripts["start"])
	assert.Equal(t, "astro dev", scripts["dev"])
}

func TestPackageManifestInvalidJSON(t *testing.T) {
	_, err := PackageManifest([]byte("not json"), "shop")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing package.json")
}

func TestReadme(t *testing.T) {
	readme, err := Readme(Data{
		Name:       "blog-demo",
		Template:   "blog",
		Tailwind:   true,
		Sanity:     true,
		Deployment: "netlify",
	})
	require.NoError(t, err)

	assert.Contains(t, readme, "# blog-demo")
	assert.Contains(t, readme, "blog template")
	assert.Contains(t, readme, "npm run dev")
	assert.Contains(t, readme, "- tailwind")
	assert.Contains(t, readme, "- sanity")
	assert.Contains(t, readme, "- netlify")
	assert.NotContains(t, readme, "## Backend")
}

func TestReadmeWithBackend(t *testing.T) {
	readme, err := Readme(Data{
		Name:       "shop",
		Template:   "minimal",
		Medusa:     true,
		BackendDir: "shop-backend",
	})
	require.NoError(t, err)

	assert.Contains(t, readme, "## Backend")
	assert.Contains(t, readme, "../shop-backend")
}

func TestReadmeNoneAnswersProduceNoIntegrations(t *testing.T) {
	readme, err := Readme(Data{
		Name:       "plain",
		Template:   "minimal",
		Framework:  "none",
		Deployment: "none",
	})
	require.NoError(t, err)
	assert.NotContains(t, readme, "## Integrations")
}

func TestGitignore(t *testing.T) {
	content := Gitignore()
	assert.Contains(t, content, "node_modules/")
	assert.Contains(t, content, "dist/")
	assert.Contains(t, content, ".env")
}

func TestSanityClient(t *testing.T) {
	stub := SanityClient()
	assert.Contains(t, stub, `from "@sanity/client"`)
	assert.Contains(t, stub, "PUBLIC_SANITY_PROJECT_ID")
}

func TestMedusaClient(t *testing.T) {
	stub := MedusaClient("")
	assert.Contains(t, stub, `"http://localhost:9000"`)

	stub = MedusaClient("https://backend.example.com")
	assert.Contains(t, stub, `"https://backend.example.com"`)
	assert.Contains(t, stub, "PUBLIC_MEDUSA_PUBLISHABLE_KEY")
}

func TestBackendStart(t *testing.T) {
	script := BackendStart("postgres", "postgres://localhost:5432/shop")
	assert.True(t, strings.HasPrefix(script, "#!/bin/sh"))
	assert.Contains(t, script, "DATABASE_URL")
	assert.Contains(t, script, "postgres://localhost:5432/shop")
	assert.Contains(t, script, "npm run dev")

	script = BackendStart("sqlite", "")
	assert.NotContains(t, script, "DATABASE_URL")
	assert.Contains(t, script, "npm run dev")
}

func TestEnvLines(t *testing.T) {
	out := EnvLines("", "")
	assert.Equal(t, "PUBLIC_MEDUSA_BACKEND_URL=http://localhost:9000\nPUBLIC_MEDUSA_PUBLISHABLE_KEY=\n", out)
}

func TestEnvLinesIdempotent(t *testing.T) {
	once := EnvLines("", "http://localhost:9000")
	twice := EnvLines(once, "http://localhost:9000")
	assert.Equal(t, once, twice)
}

func TestEnvLinesKeepsExistingValues(t *testing.T) {
	existing := "PUBLIC_MEDUSA_BACKEND_URL=https://live.example.com\n"
	out := EnvLines(existing, "http://localhost:9000")

	assert.Contains(t, out, "PUBLIC_MEDUSA_BACKEND_URL=https://live.example.com\n")
	assert.NotContains(t, out, "PUBLIC_MEDUSA_BACKEND_URL=http://localhost:9000")
	assert.Contains(t, out, "PUBLIC_MEDUSA_PUBLISHABLE_KEY=\n")
}

func TestEnvLinesAppendsAfterMissingNewline(t *testing.T) {
	out := EnvLines("SANITY_TOKEN=abc", "")
	assert.Contains(t, out, "SANITY_TOKEN=abc\nPUBLIC_MEDUSA_BACKEND_URL=")
}
