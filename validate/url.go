package validate

import (
	"errors"
	"fmt"
	"net/url"
)

// EndpointURL checks that a value parses as an absolute URL with a scheme and
// a host, which covers both http endpoints and database connection strings.
func EndpointURL(raw string) error {
	if raw == "" {
		return errors.New("URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("URL must include a scheme and a host, like postgres://localhost:5432/store")
	}
	return nil
}
