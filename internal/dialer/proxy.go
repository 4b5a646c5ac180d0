package dialer

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/wirehttp/go-wirehttp/internal/model"
)

// dialProxy connects through the configured HTTP proxy. A plaintext target
// needs no handshake at all: the prepared request already carries the
// absolute-URI form and the proxy relays it. An https target gets a CONNECT
// tunnel which is then upgraded to TLS in place.
func (d *CoreDialer) dialProxy(ctx context.Context, r *model.PreparedRequest) (net.Conn, error) {
	proxyAddr := net.JoinHostPort(r.Proxy.Host, strconv.Itoa(r.Proxy.Port))
	conn, err := d.dialTCP(ctx, proxyAddr, r.Timeout)
	if err != nil {
		return nil, err
	}
	if r.U.Scheme != "https" {
		return conn, nil
	}

	if err := connectHandshake(conn, r, proxyAddr); err != nil {
		conn.Close()
		return nil, err
	}
	tlsConn, err := d.upgradeTLS(ctx, conn, r.U.Host, r.Timeout)
	if err != nil {
		conn.Close()
		return nil, &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "TLS upgrade failed", Err: err}
	}
	return tlsConn, nil
}

// connectHandshake issues the CONNECT request and reads the proxy's reply
// up to the blank line, requiring a 200. Credentials, when configured, ride
// on this hop only; the tunneled request never sees Proxy-Authorization.
func connectHandshake(conn net.Conn, r *model.PreparedRequest, proxyAddr string) error {
	hostPort := r.U.HostPort()
	var b strings.Builder
	fmt.Fprintf(&b, "CONNECT %s HTTP/1.1\r\n", hostPort)
	fmt.Fprintf(&b, "Host: %s\r\n", hostPort)
	if r.Proxy.User != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(r.Proxy.User + ":" + r.Proxy.Pass))
		fmt.Fprintf(&b, "Proxy-Authorization: Basic %s\r\n", cred)
	}
	b.WriteString("\r\n")
	if _, err := conn.Write([]byte(b.String())); err != nil {
		return &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "CONNECT write failed", Err: err}
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "no CONNECT response", Err: err}
	}
	// drain the response headers so the tunnel starts at a clean boundary
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "truncated CONNECT response", Err: err}
		}
		if strings.TrimRight(line, "\r\n") == "" {
			break
		}
	}
	fields := strings.Fields(status)
	if len(fields) < 2 || fields[1] != "200" {
		return &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "CONNECT refused: " + strings.TrimSpace(status)}
	}
	if br.Buffered() > 0 {
		// bytes after the blank line would be lost to the buffered reader;
		// a well-behaved proxy sends none before the client speaks
		return &model.ProxyTunnelError{Proxy: proxyAddr, Reason: "unexpected data after CONNECT response"}
	}
	return nil
}
