package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
)

// gzip magic bytes, RFC 1952
const gzipMagic0, gzipMagic1 = 0x1f, 0x8b

const gzipHeaderLen = 10

// DecodeGzip inflates a gzip body. Input that does not start with the gzip
// magic is assumed to be mislabeled and comes back unchanged. On a valid
// header the fixed 10-byte prefix is stripped and the remainder raw-inflated;
// when inflation fails or produces nothing, the original bytes win.
func DecodeGzip(in []byte) (out []byte, decoded bool) {
	if len(in) < gzipHeaderLen || in[0] != gzipMagic0 || in[1] != gzipMagic1 {
		return in, false
	}
	// FLG bits would add optional fields after the fixed header; servers in
	// the wild virtually never set them, and a failed inflate falls back
	// anyway.
	raw := in[gzipHeaderLen:]
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	b, err := io.ReadAll(fr)
	if err != nil || len(b) == 0 {
		return in, false
	}
	return b, true
}

// EncodeGzip produces a standard gzip stream for in.
func EncodeGzip(in []byte) []byte {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write(in)
	gw.Close()
	return buf.Bytes()
}

// DecodeDeflate inflates a deflate body, working around the well-known
// server disagreement about what "deflate" means: first as a zlib stream
// (RFC 1950), then as a raw headerless stream (RFC 1951), then as gzip for
// servers that label gzip bodies deflate. If every attempt fails the input
// is returned unchanged.
func DecodeDeflate(in []byte) (out []byte, decoded bool) {
	if zr, err := zlib.NewReader(bytes.NewReader(in)); err == nil {
		b, err := io.ReadAll(zr)
		zr.Close()
		if err == nil && len(b) > 0 {
			return b, true
		}
	}
	fr := flate.NewReader(bytes.NewReader(in))
	b, err := io.ReadAll(fr)
	fr.Close()
	if err == nil && len(b) > 0 {
		return b, true
	}
	return DecodeGzip(in)
}

// EncodeDeflate produces a zlib-wrapped deflate stream, the form the header
// value is specified to mean.
func EncodeDeflate(in []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(in)
	zw.Close()
	return buf.Bytes()
}
