package model

import "fmt"

// ConnectionError reports a socket that could not be opened: DNS failure,
// refusal or connect timeout. It wraps the OS-level error.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProxyTunnelError reports a failed CONNECT handshake or a failed TLS
// upgrade over an established tunnel.
type ProxyTunnelError struct {
	Proxy  string
	Reason string
	Err    error
}

func (e *ProxyTunnelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("proxy tunnel via %s: %s: %v", e.Proxy, e.Reason, e.Err)
	}
	return fmt.Sprintf("proxy tunnel via %s: %s", e.Proxy, e.Reason)
}

func (e *ProxyTunnelError) Unwrap() error { return e.Err }

// ProtocolError reports a request that cannot be attempted at all, such as
// an unsupported URI scheme.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "protocol: " + e.Reason }
