// Package redact provides utilities for redacting sensitive information
// from strings before they are logged or surfaced on the status
// endpoint. The two credentials this process handles are account bearer
// tokens and proxy URIs with embedded userinfo; both would otherwise
// leak through ordinary status lines.
package redact

import (
	"net/url"
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder           = "[REDACTED]"
	RedactedCredentialPlaceholder  = "[REDACTED_CREDENTIAL]"
	RedactedBearerTokenPlaceholder = "[REDACTED_BEARER]"
)

// Precompiled regex patterns
var (
	// Authorization header values and bare JWT-shaped tokens
	bearerRegex   = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}`)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Proxy URIs with embedded credentials
	proxyCredRegex = regexp.MustCompile(`(?i)(https?|socks[45]?)://[^@/\s]+@`)

	patterns = []*regexp.Regexp{bearerRegex, jwtTokenRegex, proxyCredRegex}

	patternPlaceholders = map[*regexp.Regexp]string{
		bearerRegex:    RedactedBearerTokenPlaceholder,
		jwtTokenRegex:  RedactedBearerTokenPlaceholder,
		proxyCredRegex: "$1://" + RedactedCredentialPlaceholder + "@",
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Token truncates a bearer token to a short recognizable prefix so
// operators can tell accounts apart in logs without exposing the
// credential.
func Token(token string) string {
	const keep = 8
	if len(token) <= keep {
		return RedactedBearerTokenPlaceholder
	}
	return token[:keep] + "..."
}

// ProxyURL strips userinfo from a proxy URI, keeping scheme and host so
// routing problems stay diagnosable.
func ProxyURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return String(raw)
	}
	if u.User != nil {
		u.User = url.User(RedactedCredentialPlaceholder)
	}
	return u.String()
}
