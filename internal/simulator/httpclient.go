package simulator

import (
	"net"
	"net/http"
	"time"
)

// newSimulatorHTTPClient creates an HTTP client tuned for execution service
// calls: individual runs are short, but a learner re-running an exercise
// produces bursts against the same host
func newSimulatorHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		MaxConnsPerHost:       10,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   60 * time.Second,
		Transport: transport,
	}
}
