package model

import (
	"time"

	"github.com/wirehttp/go-wirehttp/internal/header"
)

// Encodings carries the Accept-Encoding q-values, one per supported coding.
// A zero weight disables the coding; the header always lists all four so a
// disabled coding is advertised with q=0 rather than omitted. The legacy
// "compress" coding is decodable but never offered here: its LZW encoder is
// non-interoperable with anything still deployed.
type Encodings struct {
	Chunked  float64
	Identity float64
	Gzip     float64
	Deflate  float64
}

// DefaultEncodings accepts everything the client can decode.
func DefaultEncodings() Encodings {
	return Encodings{Chunked: 1.0, Identity: 1.0, Gzip: 1.0, Deflate: 1.0}
}

// Credentials is a username/password pair for Basic or Digest auth.
type Credentials struct {
	User string
	Pass string
}

// ProxyConfig selects an HTTP proxy. A plaintext target is passed through
// with an absolute-URI request line; an https target is tunneled with
// CONNECT and a TLS upgrade. User/Pass, when set, go out as a Basic
// Proxy-Authorization on the proxy hop only.
type ProxyConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// Enabled reports whether a proxy is configured at all.
func (p ProxyConfig) Enabled() bool { return p.Host != "" }

// ByteRange is a request byte range; zero values mean unset. End 0 with a
// nonzero Start yields an open-ended range.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

const (
	DefaultUserAgent = "wirehttp/1.0"
	DefaultAccept    = "*/*"
	DefaultVersion   = "1.1"
	DefaultTimeout   = 30 * time.Second

	// DefaultMaxRedirects bounds the redirect loop. Unbounded following is
	// a hang against a misconfigured or hostile server.
	DefaultMaxRedirects = 10
)

// Request is the client configuration for one or more exchanges. Every
// option is a plain typed field; there is no dynamic option lookup, so an
// unknown option cannot exist. A Request must not be mutated while an
// exchange is running, and is not safe for concurrent use.
type Request struct {
	Method   string
	Body     []byte
	BodyMIME string
	Version  string // HTTP version in the request line, "1.1" by default

	Range     ByteRange
	UserAgent string
	Accept    string
	Encodings Encodings

	// outbound codings applied to Body: content first, then transfer
	ContentEncoding  string // "", "gzip", "deflate", "compress"
	TransferEncoding string // "", "chunked"

	Header *header.Map // extra headers, ordered, last write wins

	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int // 0 means DefaultMaxRedirects

	Credentials Credentials
	Proxy       ProxyConfig
}

// NewRequest returns a Request with the defaults a bare GET needs.
func NewRequest() *Request {
	return &Request{
		Method:          "GET",
		Version:         DefaultVersion,
		UserAgent:       DefaultUserAgent,
		Accept:          DefaultAccept,
		Encodings:       DefaultEncodings(),
		Header:          header.NewMap(),
		Timeout:         DefaultTimeout,
		FollowRedirects: true,
	}
}

// HopLimit returns the effective redirect ceiling.
func (r *Request) HopLimit() int {
	if r.MaxRedirects > 0 {
		return r.MaxRedirects
	}
	return DefaultMaxRedirects
}
