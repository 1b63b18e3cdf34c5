package attachment

import (
	"net/url"
	"strings"
)

// ResolveURL resolves a stored relative attachment path against the
// static-file base URL. Absolute inputs and unparsable bases pass through
// unchanged.
func ResolveURL(staticBase, storedPath string) string {
	storedPath = strings.TrimSpace(storedPath)
	if storedPath == "" {
		return ""
	}
	if strings.HasPrefix(storedPath, "http://") || strings.HasPrefix(storedPath, "https://") {
		return storedPath
	}

	base, err := url.Parse(strings.TrimSpace(staticBase))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return storedPath
	}

	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(storedPath, "/")
	return base.String()
}
