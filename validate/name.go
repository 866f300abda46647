package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// maxNameLength mirrors the npm registry limit for package names.
const maxNameLength = 214

var namePattern = regexp.MustCompile(`^(?:@[a-z0-9][a-z0-9-_]*/)?[a-z0-9][a-z0-9-_]*$`)

// ProjectName reports whether a name is usable as both a directory name and a
// package.json name. It returns nil for valid names and a distinct,
// user-facing reason for each violated rule so prompts can show it verbatim.
func ProjectName(name string) error {
	if name == "" {
		return errors.New("project name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("project name must be at most %d characters, got %d", maxNameLength, len(name))
	}
	if strings.HasPrefix(name, ".") {
		return errors.New("project name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		return errors.New("project name cannot start with an underscore")
	}
	if !namePattern.MatchString(name) {
		return errors.New("project name may only contain lowercase letters, digits, hyphens and underscores, with an optional @scope/ prefix")
	}
	return nil
}

// DirectoryName rejects names unusable as a sibling directory: empty names,
// names containing path separators, and names starting with a period.
func DirectoryName(name string) error {
	if name == "" {
		return errors.New("directory name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.New("directory name must not contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return errors.New("directory name cannot start with a period")
	}
	return nil
}
