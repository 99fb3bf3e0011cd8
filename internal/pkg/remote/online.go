package remote

import (
	"net"
	"net/url"
	"time"
)

const probeTimeout = 3 * time.Second

// OnlineProbe returns a connectivity check against the given endpoint
// (the Go analogue of navigator.onLine). An empty or unparseable
// endpoint yields a probe that is always false, matching the
// "backend not configured" skip.
func OnlineProbe(endpoint string) func() bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return func() bool { return false }
	}

	host := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	return func() bool {
		conn, err := net.DialTimeout("tcp", host, probeTimeout)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}
