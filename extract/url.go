package extract

import "net/url"

// IsValidURL reports whether s parses as a URL with both a scheme and a host
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
