package request

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
	"h12.io/socks"
)

// NewTransport builds an HTTP transport routing through the given proxy
// URI. Supported schemes are http, https, socks4, and socks5. An empty
// URI yields a direct transport.
func NewTransport(proxyURI string) (http.RoundTripper, error) {
	if proxyURI == "" {
		return http.DefaultTransport, nil
	}

	u, err := url.Parse(proxyURI)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URI: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return &http.Transport{Proxy: http.ProxyURL(u)}, nil

	case "socks5":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("building socks5 dialer: %w", err)
		}
		ctxDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5 dialer does not support context dialing")
		}
		return &http.Transport{DialContext: ctxDialer.DialContext}, nil

	case "socks4", "socks4a":
		// x/net/proxy only speaks SOCKS5; socks4 goes through h12.io/socks.
		dial := socks.Dial(proxyURI)
		return &http.Transport{Dial: dial}, nil

	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
}
