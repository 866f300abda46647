package emit

import "strings"

// Environment keys the storefront reads at build time.
const (
	EnvBackendURL     = "PUBLIC_MEDUSA_BACKEND_URL"
	EnvPublishableKey = "PUBLIC_MEDUSA_PUBLISHABLE_KEY"
)

// EnvLines appends the storefront environment keys to an existing .env
// payload. Keys already present keep their current values; existing content
// is preserved byte for byte.
func EnvLines(existing string, backendURL string) string {
	if backendURL == "" {
		backendURL = DefaultBackendURL
	}
	entries := []struct{ key, value string }{
		{EnvBackendURL, backendURL},
		{EnvPublishableKey, ""},
	}

	out := existing
	for _, e := range entries {
		if hasEnvKey(existing, e.key) {
			continue
		}
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += e.key + "=" + e.value + "\n"
	}
	return out
}

func hasEnvKey(content, key string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), key+"=") {
			return true
		}
	}
	return false
}
