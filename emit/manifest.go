package emit

import (
	"encoding/json"
	"fmt"
)

// projectScripts are the npm script entries every generated project carries.
var projectScripts = map[string]string{
	"dev":     "astro dev",
	"build":   "astro build",
	"preview": "astro preview",
	"astro":   "astro",
	"check":   "astro check",
	"sync":    "astro sync",
}

// PackageManifest rewrites a package.json payload with the project name, an
// initial version, a description, a license and the standard script entries.
// Any other fields in the manifest, including scripts not managed here, are
// preserved.
func PackageManifest(existing []byte, name string) ([]byte, error) {
	var manifest map[string]interface{}
	if err := json.Unmarshal(existing, &manifest); err != nil {
		return nil, fmt.Errorf("error parsing package.json: %w", err)
	}

	manifest["name"] = name
	manifest["version"] = "0.1.0"
	manifest["description"] = fmt.Sprintf("%s, an Astro project generated with gantry", name)
	manifest["license"] = "MIT"

	scripts, ok := manifest["scripts"].(map[string]interface{})
	if !ok {
		scripts = make(map[string]interface{})
	}
	for k, v := range projectScripts {
		scripts[k] = v
	}
	manifest["scripts"] = scripts

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding package.json: %w", err)
	}
	return append(out, '\n'), nil
}
