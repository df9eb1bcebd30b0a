package store

import (
	"fmt"
	"os"
	"strings"
)

// LoadTokens reads the newline-delimited bearer token file. Blank lines
// and surrounding whitespace are ignored. A missing file is not an
// error: it yields an empty list and the cycle decides what that means.
func LoadTokens(path string) ([]string, error) {
	return loadLines(path)
}

// LoadProxies reads the newline-delimited proxy URI file. A missing
// file yields an empty list, which disables proxying for the cycle.
func LoadProxies(path string) ([]string, error) {
	return loadLines(path)
}

func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// ProxyFor returns the proxy assigned to the account at the given
// index: proxies map round-robin onto accounts and the assignment is
// static for the lifetime of a cycle. An empty proxy list means direct
// connections for everyone.
func ProxyFor(proxies []string, accountIndex int) string {
	if len(proxies) == 0 {
		return ""
	}
	return proxies[accountIndex%len(proxies)]
}
