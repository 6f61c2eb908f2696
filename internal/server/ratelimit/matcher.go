package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint returns the rule for method and path, or nil to use the
// default limit. Health probes and the root banner are never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && (path == "/" || path == "/health" || strings.HasSuffix(path, "/health")) {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
