// Package dialer opens the stream connection for one exchange: a direct
// socket (TLS-wrapped for https), a plaintext pass-through to an HTTP
// proxy, or a CONNECT tunnel upgraded to TLS in place.
package dialer

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/wirehttp/go-wirehttp/internal/model"
)

// Dialer is how the orchestrator obtains a connection. Swapped out in tests
// for scripted in-memory streams.
type Dialer interface {
	Dial(ctx context.Context, r *model.PreparedRequest) (net.Conn, error)
}

// CoreDialer is the production Dialer.
type CoreDialer struct {
	// TLSConfig, when set, overrides the per-connection TLS defaults.
	TLSConfig *tls.Config
}

// Dial opens the connection described by r. The request's Timeout bounds the
// connection attempt; read deadlines are applied later by the transport.
// Connection failures come back as *model.ConnectionError, tunnel failures
// as *model.ProxyTunnelError.
func (d *CoreDialer) Dial(ctx context.Context, r *model.PreparedRequest) (net.Conn, error) {
	if r.Proxy.Enabled() {
		return d.dialProxy(ctx, r)
	}

	conn, err := d.dialTCP(ctx, r.U.HostPort(), r.Timeout)
	if err != nil {
		return nil, err
	}
	if r.U.Scheme == "https" {
		tlsConn, err := d.upgradeTLS(ctx, conn, r.U.Host, r.Timeout)
		if err != nil {
			conn.Close()
			return nil, &model.ConnectionError{Addr: r.U.HostPort(), Err: err}
		}
		return tlsConn, nil
	}
	return conn, nil
}

func (d *CoreDialer) dialTCP(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	nd := net.Dialer{Timeout: timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &model.ConnectionError{Addr: addr, Err: err}
	}
	return conn, nil
}

// upgradeTLS wraps conn in a client TLS session. The runtime negotiates the
// strongest protocol version both ends support; there is nothing to step
// down manually.
func (d *CoreDialer) upgradeTLS(ctx context.Context, conn net.Conn, serverName string, timeout time.Duration) (*tls.Conn, error) {
	config := d.TLSConfig.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	if config.ServerName == "" {
		config.ServerName = serverName
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	c := tls.Client(conn, config)
	if err := c.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
