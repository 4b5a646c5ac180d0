// Package codec implements the transfer and content codings the client
// negotiates: chunked, gzip, deflate and the legacy LZW "compress" format.
//
// Decoders are best-effort on purpose: servers mislabel encodings often
// enough that failing an exchange over a bad body is worse than handing the
// caller the raw bytes. Every Decode* function therefore returns the
// original input together with decoded=false instead of an error.
package codec

import (
	"bytes"
	"fmt"
)

const crlf = "\r\n"

// DecodeChunked reassembles a fully-buffered chunked transfer coding.
// Each chunk is a hex size line followed by exactly that many bytes and a
// CRLF; a zero-size chunk terminates the body. Trailer headers are not
// supported. Malformed input is returned unchanged with decoded=false.
func DecodeChunked(in []byte) (out []byte, decoded bool) {
	rest := in
	var buf bytes.Buffer
	for {
		nl := bytes.Index(rest, []byte(crlf))
		if nl < 0 {
			return in, false
		}
		size, ok := parseChunkSize(rest[:nl])
		if !ok {
			return in, false
		}
		rest = rest[nl+2:]
		if size == 0 {
			return buf.Bytes(), true
		}
		if len(rest) < size {
			return in, false
		}
		buf.Write(rest[:size])
		rest = rest[size:]
		// chunk data is followed by its own CRLF
		if len(rest) < 2 || rest[0] != '\r' || rest[1] != '\n' {
			return in, false
		}
		rest = rest[2:]
	}
}

// EncodeChunked frames in as a single-chunk body with the terminating
// zero-size chunk. Empty input yields just the terminator.
func EncodeChunked(in []byte) []byte {
	var buf bytes.Buffer
	if len(in) > 0 {
		fmt.Fprintf(&buf, "%x%s", len(in), crlf)
		buf.Write(in)
		buf.WriteString(crlf)
	}
	buf.WriteString("0" + crlf + crlf)
	return buf.Bytes()
}

// parseChunkSize reads the hex size from a chunk header line, ignoring any
// ";ext=val" chunk extension.
func parseChunkSize(line []byte) (int, bool) {
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 || len(line) > 8 {
		return 0, false
	}
	size := 0
	for _, b := range line {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		default:
			return 0, false
		}
		size = size<<4 | int(b)
	}
	return size, true
}
