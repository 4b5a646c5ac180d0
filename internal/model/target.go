package model

import (
	"net/url"
	"strconv"
	"strings"
)

// schemePorts maps supported schemes to their default ports.
var schemePorts = map[string]int{"http": 80, "https": 443}

// TargetURI is the broken-down request target. It is rebuilt on every
// redirect by merging the Location header into the previous target.
type TargetURI struct {
	Scheme   string
	Host     string
	Port     int
	User     string
	Pass     string
	Path     string
	Query    string
	Fragment string
}

// ParseTarget parses raw into a TargetURI, defaulting the port from the
// scheme. Schemes other than http and https are a ProtocolError: the
// request fails before any connection is attempted.
func ParseTarget(raw string) (*TargetURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ProtocolError{Reason: err.Error()}
	}
	scheme := strings.ToLower(u.Scheme)
	port, ok := schemePorts[scheme]
	if !ok {
		return nil, &ProtocolError{Reason: "unsupported scheme " + strconv.Quote(u.Scheme)}
	}
	t := &TargetURI{
		Scheme:   scheme,
		Host:     u.Hostname(),
		Port:     port,
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, &ProtocolError{Reason: "invalid port " + strconv.Quote(p)}
		}
		t.Port = n
	}
	if u.User != nil {
		t.User = u.User.Username()
		t.Pass, _ = u.User.Password()
	}
	if t.Host == "" {
		return nil, &ProtocolError{Reason: "empty host"}
	}
	return t, nil
}

// FullPath is the request-target path form: path plus query, "*" for an
// OPTIONS request without a path, "/" otherwise.
func (t *TargetURI) FullPath(method string) string {
	if t.Path == "" {
		if strings.EqualFold(method, "OPTIONS") {
			return "*"
		}
		if t.Query == "" {
			return "/"
		}
		return "/?" + t.Query
	}
	if t.Query == "" {
		return t.Path
	}
	return t.Path + "?" + t.Query
}

// AddPort reports whether the port differs from the scheme default and so
// belongs in the Host header and absolute form.
func (t *TargetURI) AddPort() bool {
	return t.Port != schemePorts[t.Scheme]
}

// HostPort returns host:port for dialing.
func (t *TargetURI) HostPort() string {
	return t.Host + ":" + strconv.Itoa(t.Port)
}

// HostHeader returns the Host header value, carrying the port only when it
// is not the scheme default.
func (t *TargetURI) HostHeader() string {
	if t.AddPort() {
		return t.HostPort()
	}
	return t.Host
}

// Absolute renders the absolute-URI form used as the request target when
// passing a plaintext request through a proxy.
func (t *TargetURI) Absolute(method string) string {
	return t.Scheme + "://" + t.HostHeader() + t.FullPath(method)
}

// Merge rebuilds the target from a Location header value. An absolute
// location replaces the target wholly; a relative one keeps scheme, host
// and port and replaces path and query. Credentials never survive a
// redirect.
func (t *TargetURI) Merge(location string) (*TargetURI, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return ParseTarget(location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, &ProtocolError{Reason: "bad Location: " + err.Error()}
	}
	next := &TargetURI{
		Scheme:   t.Scheme,
		Host:     t.Host,
		Port:     t.Port,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}
	if strings.HasPrefix(u.Path, "/") {
		next.Path = u.Path
	} else {
		// relative path: resolve against the directory of the old path
		base := t.Path
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[:i+1]
		} else {
			base = "/"
		}
		next.Path = base + u.Path
	}
	return next, nil
}
