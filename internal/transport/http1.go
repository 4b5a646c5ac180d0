// Package transport writes prepared requests to a connection and reads raw
// responses back. Every exchange uses exactly one connection: the request
// always carries Connection: close, so the read loop runs to end-of-stream
// and the connection is closed unconditionally afterwards.
package transport

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/wirehttp/go-wirehttp/internal/model"
)

const readChunk = 4096

// Write serializes r and sends it. The serialized bytes are returned so the
// caller can expose the literal request.
func Write(w io.Writer, r *model.PreparedRequest) ([]byte, error) {
	raw, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return raw, err
	}
	return raw, nil
}

// ReadRaw accumulates the response in fixed-size reads until end-of-stream
// or the read deadline, then splits it at the first blank line. An interim
// "100 Continue" head is stripped before splitting. A read timeout is
// treated like end-of-stream: with Connection: close there is no other
// content-complete marker to wait for.
func ReadRaw(conn io.Reader, timeout time.Duration) (head, body []byte, err error) {
	type deadliner interface{ SetReadDeadline(time.Time) error }
	if d, ok := conn.(deadliner); ok && timeout > 0 {
		d.SetReadDeadline(time.Now().Add(timeout))
	}

	var raw bytes.Buffer
	buf := make([]byte, readChunk)
	for {
		n, rerr := conn.Read(buf)
		raw.Write(buf[:n])
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				break // stalled read, take what we have
			}
			return nil, nil, rerr
		}
	}

	data := raw.Bytes()
	data = stripInterim(data)
	sep := bytes.Index(data, []byte("\r\n\r\n"))
	if sep < 0 {
		return data, nil, nil
	}
	return data[:sep], data[sep+4:], nil
}

// stripInterim drops a leading 1xx interim response, up to and including
// its terminating blank line, so the final status line heads the buffer.
func stripInterim(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte("HTTP/")) {
		return data
	}
	nl := bytes.Index(data, []byte("\r\n"))
	if nl < 0 {
		return data
	}
	fields := bytes.Fields(data[:nl])
	if len(fields) < 2 || len(fields[1]) != 3 || fields[1][0] != '1' {
		return data
	}
	if end := bytes.Index(data, []byte("\r\n\r\n")); end >= 0 {
		return data[end+4:]
	}
	return data
}
