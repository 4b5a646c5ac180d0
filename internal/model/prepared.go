package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/wirehttp/go-wirehttp/internal/codec"
)

// PreparedRequest binds a Request to one target plus the per-exchange
// header values the orchestrator computed (cookies, authorization), ready
// to be serialized to the wire.
type PreparedRequest struct {
	*Request

	U        *TargetURI
	ViaProxy bool // plaintext request through a proxy: absolute-URI target

	CookieHeader string
	AuthHeader   string
}

// Prepare validates the caller-supplied extra headers and binds r to u.
func (r *Request) Prepare(u *TargetURI, viaProxy bool, cookie, auth string) (*PreparedRequest, error) {
	if r.Header != nil {
		for _, k := range r.Header.Keys() {
			if !httpguts.ValidHeaderFieldName(k) {
				return nil, &ProtocolError{Reason: "invalid header name " + strconv.Quote(k)}
			}
			if !httpguts.ValidHeaderFieldValue(r.Header.Get(k)) {
				return nil, &ProtocolError{Reason: "invalid value for header " + strconv.Quote(k)}
			}
		}
	}
	return &PreparedRequest{
		Request: r, U: u, ViaProxy: viaProxy,
		CookieHeader: cookie, AuthHeader: auth,
	}, nil
}

// Bytes serializes the request line, header block and encoded body.
//
// The body is transformed content-coding first, then transfer-coding, and
// each step adds its header only when it actually changed the bytes.
// Content-Length always describes the on-wire body.
func (p *PreparedRequest) Bytes() ([]byte, error) {
	body, contentHdr, transferHdr, err := p.encodeBody()
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	method := p.Method
	if method == "" {
		method = "GET"
	}
	target := p.U.FullPath(method)
	if p.ViaProxy {
		target = p.U.Absolute(method)
	}
	version := p.Version
	if version == "" {
		version = DefaultVersion
	}
	fmt.Fprintf(&b, "%s %s HTTP/%s\r\n", method, target, version)

	writeHeader(&b, "Host", p.U.HostHeader())
	writeHeader(&b, "User-Agent", p.UserAgent)
	writeHeader(&b, "Connection", "close")
	writeHeader(&b, "Accept-Encoding", p.Encodings.Header())
	writeHeader(&b, "Accept", p.Accept)
	if len(body) > 0 || len(p.Body) > 0 {
		writeHeader(&b, "Content-Length", strconv.Itoa(len(body)))
		if p.BodyMIME != "" {
			writeHeader(&b, "Content-Type", p.BodyMIME)
		}
	}
	if contentHdr != "" {
		writeHeader(&b, "Content-Encoding", contentHdr)
	}
	if transferHdr != "" {
		writeHeader(&b, "Transfer-Encoding", transferHdr)
	}
	if !p.Range.IsZero() {
		if p.Range.End > 0 {
			fmt.Fprintf(&b, "Range: bytes=%d-%d\r\n", p.Range.Start, p.Range.End)
		} else {
			fmt.Fprintf(&b, "Range: bytes=%d-\r\n", p.Range.Start)
		}
	}
	if p.Header != nil {
		for _, k := range p.Header.Keys() {
			writeHeader(&b, k, p.Header.Get(k))
		}
	}
	writeHeader(&b, "Cookie", p.CookieHeader)
	writeHeader(&b, "Authorization", p.AuthHeader)

	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes(), nil
}

// encodeBody applies the configured codings and reports which headers they
// earned. An encoder returning the input unchanged earns no header.
func (p *PreparedRequest) encodeBody() (body []byte, contentHdr, transferHdr string, err error) {
	body = p.Body
	if len(body) == 0 {
		return body, "", "", nil
	}
	switch strings.ToLower(p.ContentEncoding) {
	case "":
	case "gzip":
		body, contentHdr = codec.EncodeGzip(body), "gzip"
	case "deflate":
		body, contentHdr = codec.EncodeDeflate(body), "deflate"
	case "compress":
		body, contentHdr = codec.EncodeCompress(body), "compress"
	default:
		return nil, "", "", &ProtocolError{Reason: "unknown content encoding " + strconv.Quote(p.ContentEncoding)}
	}
	switch strings.ToLower(p.TransferEncoding) {
	case "":
	case "chunked":
		body, transferHdr = codec.EncodeChunked(body), "chunked"
	case "identity":
		// explicit no-op coding, no header earned
	default:
		return nil, "", "", &ProtocolError{Reason: "unknown transfer encoding " + strconv.Quote(p.TransferEncoding)}
	}
	return body, contentHdr, transferHdr, nil
}

func writeHeader(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// Header renders the Accept-Encoding value, listing every supported coding
// with its weight so disabled codings appear with q=0.
func (e Encodings) Header() string {
	return fmt.Sprintf("chunked;q=%.1f, identity;q=%.1f, gzip;q=%.1f, deflate;q=%.1f",
		e.Chunked, e.Identity, e.Gzip, e.Deflate)
}
