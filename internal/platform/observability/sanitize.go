package observability

import (
	"net/url"
	"strings"
)

var sensitiveQueryKeys = map[string]struct{}{
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"api_key":       {},
	"apikey":        {},
	"secret":        {},
	"password":      {},
	"session":       {},
}

// SanitizeURL redacts sensitive query parameter values before logging.
func SanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for key := range q {
		if _, ok := sensitiveQueryKeys[strings.ToLower(key)]; ok {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.RequestURI()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.RequestURI()
}
