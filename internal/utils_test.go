package internal_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/wirehttp/go-wirehttp/internal"
)

// scriptConn replays one canned response and captures whatever the client
// writes. Reading past the response yields EOF, matching a server that
// honors Connection: close.
type scriptConn struct {
	io.Reader
	wrote  bytes.Buffer
	closed bool
}

func (c *scriptConn) Write(p []byte) (int, error) { return c.wrote.Write(p) }
func (c *scriptConn) Close() error                { c.closed = true; return nil }

// scriptDialer hands out one scriptConn per exchange, in order.
type scriptDialer struct {
	responses []string
	conns     []*scriptConn
}

func (d *scriptDialer) dial(ctx context.Context, r *internal.PreparedRequest) (io.ReadWriteCloser, error) {
	if len(d.conns) >= len(d.responses) {
		return nil, errors.New("scripted dialer exhausted")
	}
	c := &scriptConn{Reader: strings.NewReader(d.responses[len(d.conns)])}
	d.conns = append(d.conns, c)
	return c, nil
}

// newScriptedClient wires a Client to canned responses and returns both.
func newScriptedClient(responses ...string) (*internal.Client, *scriptDialer) {
	c := internal.New()
	d := &scriptDialer{responses: responses}
	c.UseDialer(d.dial)
	return c, d
}

func request(d *scriptDialer, i int) string {
	return d.conns[i].wrote.String()
}
