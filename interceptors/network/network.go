// Package network is the outbound-network interception seam. It is
// grounded on proxy.Interceptor (ShouldIntercept/
// HandleRequest over an http.Request) and proxy/interceptors/npm_registry.go/
// pypi_registry.go's per-registry host checks, generalized from "is this
// the npm/pypi registry" to an http.RoundTripper wrapper that evaluates
// every outbound request regardless of destination, since this engine
// polices all of a process's network egress rather than proxying traffic
// to two known registries.
package network

import (
	"bytes"
	"io"
	"net/http"

	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/model"
)

// Guard checks outbound network operations against the firewall
// pipeline.
type Guard struct {
	pipeline *interceptors.Pipeline
}

// New wraps pipeline as a network Guard.
func New(pipeline *interceptors.Pipeline) *Guard {
	return &Guard{pipeline: pipeline}
}

// CheckConnect evaluates a bare TCP connect to hostport.
func (g *Guard) CheckConnect(hostport string) error {
	op := model.Operation{
		Kind:         model.OpNetConnect,
		Target:       hostport,
		CallerOrigin: callerorigin.Resolve(2),
	}

	_, err := g.pipeline.Decide(op)
	return err
}

// CheckRequest evaluates an outbound request to hostport, scanning body
// for leaked credentials.
func (g *Guard) CheckRequest(hostport string, body []byte) error {
	op := model.Operation{
		Kind:         model.OpNetRequest,
		Target:       hostport,
		CallerOrigin: callerorigin.Resolve(2),
		Body:         body,
	}

	_, err := g.pipeline.Decide(op)
	return err
}

// RoundTripper wraps an http.RoundTripper so every outbound HTTP request
// made through it is evaluated before being sent.
type RoundTripper struct {
	Guard *Guard
	Next  http.RoundTripper
}

// WrapTransport returns a RoundTripper guarding next (http.DefaultTransport
// if next is nil).
func (g *Guard) WrapTransport(next http.RoundTripper) *RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RoundTripper{Guard: g, Next: next}
}

// RoundTrip evaluates req's host and body before delegating.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	hostport := req.URL.Host
	if err := t.Guard.CheckRequest(hostport, body); err != nil {
		return nil, err
	}

	return t.Next.RoundTrip(req)
}
