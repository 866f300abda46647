package validate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NodeVersion checks `node --version` style output against a minimum major
// version. The "v" prefix node prints is tolerated.
func NodeVersion(raw string, minMajor int) error {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	v, err := semver.NewVersion(trimmed)
	if err != nil {
		return fmt.Errorf("parsing node version %q: %w", raw, err)
	}
	if v.Major() < uint64(minMajor) {
		return fmt.Errorf("node v%s is below the minimum supported version %d", v, minMajor)
	}
	return nil
}
