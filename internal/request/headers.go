package request

import (
	"math/rand"
	"net/http"
)

// userAgents is the fixed rotation set. One is chosen uniformly at
// random per request.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Firefox/102.0",
}

// browserHeaders is the fixed impersonation set the remote service
// expects on every call. The user agent is filled in per request.
var browserHeaders = map[string]string{
	"accept":             "application/json, text/plain, */*",
	"accept-language":    "en-US,en;q=0.9,id;q=0.8",
	"origin":             "https://app.psdn.ai",
	"priority":           "u=1, i",
	"referer":            "https://app.psdn.ai/",
	"sec-ch-ua":          `"Chromium";v="134", "Not:A-Brand";v="24", "Google Chrome";v="134"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "cross-site",
}

// BrowserHeaders returns the impersonation header set with a randomly
// chosen user agent. When token is non-empty a bearer Authorization
// header is attached.
func BrowserHeaders(token string) http.Header {
	h := http.Header{}
	for k, v := range browserHeaders {
		h.Set(k, v)
	}
	h.Set("user-agent", userAgents[rand.Intn(len(userAgents))])
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
