package model

import (
	"github.com/wirehttp/go-wirehttp/internal/header"
)

// Result is the outcome of one exchange. The orchestrator zeroes it at the
// start of every request, the response parser fills it, and the final
// iteration's value is handed to the caller unchanged.
type Result struct {
	StatusCode int
	StatusText string

	Proto   string      // e.g. "HTTP/1.1"
	Headers *header.Map // parsed response headers
	Raw     []byte      // body bytes as read off the wire
	Body    []byte      // body after transfer/content decoding
	Decoded bool        // false when every applicable decode fell back

	Err string // empty means success
}

// Reset returns r to its zero state for the next exchange.
func (r *Result) Reset() {
	*r = Result{Headers: header.NewMap()}
}

// HasError reports whether the exchange failed, including non-2xx statuses.
func (r *Result) HasError() bool { return r.Err != "" }

// Fail records err as the exchange error text.
func (r *Result) Fail(err string) { r.Err = err }
