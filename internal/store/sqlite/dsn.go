package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const scheme = "sqlite://"

// parseDSN turns sqlite://<path>[?query] into the path form the driver
// expects. Relative paths are anchored at the working directory.
func parseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, scheme) {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", scheme)
	}

	rest := strings.TrimPrefix(dsn, scheme)
	if rest == ":memory:" {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
