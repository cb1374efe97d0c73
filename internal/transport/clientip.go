package transport

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP derives the originating client address for a request. Behind a
// proxy the first X-Forwarded-For hop wins; otherwise the port is stripped
// from RemoteAddr so stored addresses keep a single shape.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
