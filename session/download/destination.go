package download

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// BaseName returns the last segment of uri's path, or "" when the path is
// empty or ends with a slash.
func BaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}

	p := u.Path
	base := p[strings.LastIndex(p, "/")+1:]
	if base == "." || base == ".." || strings.ContainsRune(base, filepath.Separator) {
		return ""
	}

	return base
}

// Destination resolves where the body of uri should be written.
//
// With no dest, the URI's base name is used. A dest naming an existing
// directory gets the base name joined under it. Any other dest is used
// verbatim. The filesystem is checked at most once.
func Destination(uri, dest string) (string, error) {
	base := BaseName(uri)

	if dest == "" {
		if base == "" {
			return "", &FilenameError{URI: uri}
		}
		return base, nil
	}

	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return dest, nil
	}

	if base == "" {
		return "", &FilenameError{URI: uri}
	}

	return filepath.Join(dest, base), nil
}
