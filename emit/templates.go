package emit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// DefaultBackendURL is where a locally started Medusa backend listens.
const DefaultBackendURL = "http://localhost:9000"

// Data carries the resolved answers the template emitters render from.
type Data struct {
	Name       string
	Template   string
	Framework  string
	Tailwind   bool
	Sanity     bool
	Medusa     bool
	Deployment string
	BackendDir string
	BackendURL string
	Database   string
}

// Integrations lists the enabled integrations for documentation purposes.
func (d Data) Integrations() []string {
	var out []string
	if d.Framework != "" && d.Framework != "none" {
		out = append(out, d.Framework)
	}
	if d.Tailwind {
		out = append(out, "tailwind")
	}
	if d.Sanity {
		out = append(out, "sanity")
	}
	if d.Medusa {
		out = append(out, "medusa")
	}
	if d.Deployment != "" && d.Deployment != "none" {
		out = append(out, d.Deployment)
	}
	return out
}

var readmeTmpl = template.Must(template.New("readme").Parse(`# {{.Name}}

An [Astro](https://astro.build) project generated with gantry from the {{.Template}} template.

## Commands

All commands are run from the root of the project, from a terminal:

| Command           | Action                                           |
| :---------------- | :----------------------------------------------- |
| ` + "`npm install`" + `     | Installs dependencies                            |
| ` + "`npm run dev`" + `     | Starts local dev server at ` + "`localhost:4321`" + `      |
| ` + "`npm run build`" + `   | Build your production site to ` + "`./dist/`" + `          |
| ` + "`npm run preview`" + ` | Preview your build locally, before deploying     |
| ` + "`npm run check`" + `   | Type-check the project                           |
| ` + "`npm run sync`" + `    | Regenerate content collection types              |
{{- with .Integrations}}

## Integrations

{{- range .}}
- {{.}}
{{- end}}
{{- end}}
{{- if .BackendDir}}

## Backend

The Medusa backend lives in ` + "`../{{.BackendDir}}`" + `. Start it before the
storefront:

` + "```sh\ncd ../{{.BackendDir}} && ./start.sh\n```" + `
{{- end}}
`))

// Readme renders the project documentation file.
func Readme(d Data) (string, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("error rendering README: %w", err)
	}
	return buf.String(), nil
}

const gitignore = `# build output
dist/

# generated types
.astro/

# dependencies
node_modules/

# logs
npm-debug.log*
yarn-debug.log*
yarn-error.log*
pnpm-debug.log*

# environment variables
.env
.env.production

# macOS-specific files
.DS_Store
`

// Gitignore returns the ignore rules written into every generated project.
func Gitignore() string {
	return gitignore
}

const sanityClient = `import { createClient } from "@sanity/client";

export const sanity = createClient({
  projectId: import.meta.env.PUBLIC_SANITY_PROJECT_ID,
  dataset: import.meta.env.PUBLIC_SANITY_DATASET ?? "production",
  apiVersion: "2025-01-01",
  useCdn: true,
});
`

// SanityClient returns the CMS client stub written to src/lib/sanity.ts.
func SanityClient() string {
	return sanityClient
}

// MedusaClient returns the storefront client stub written to
// src/lib/medusa.ts, pointing at the configured backend.
func MedusaClient(backendURL string) string {
	if backendURL == "" {
		backendURL = DefaultBackendURL
	}
	return fmt.Sprintf(`import Medusa from "@medusajs/js-sdk";

export const medusa = new Medusa({
  baseUrl: import.meta.env.PUBLIC_MEDUSA_BACKEND_URL ?? %q,
  publishableKey: import.meta.env.PUBLIC_MEDUSA_PUBLISHABLE_KEY,
});
`, backendURL)
}

// BackendStart returns the startup script written into a generated backend
// directory. For a postgres backend the connection string is exported so the
// script works outside the generating shell.
func BackendStart(database, databaseURL string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\nset -e\n\n")
	if database == "postgres" && databaseURL != "" {
		fmt.Fprintf(&b, "export DATABASE_URL=\"${DATABASE_URL:-%s}\"\n\n", databaseURL)
	}
	b.WriteString("npm run dev\n")
	return b.String()
}
