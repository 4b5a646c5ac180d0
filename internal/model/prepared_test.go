package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wirehttp/go-wirehttp/internal/codec"
)

func serialize(t *testing.T, r *Request, rawURL string, viaProxy bool, cookie, auth string) string {
	t.Helper()
	u, err := ParseTarget(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	pr, err := r.Prepare(u, viaProxy, cookie, auth)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := pr.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestSerializeBasicRequest(t *testing.T) {
	r := NewRequest()
	got := serialize(t, r, "http://www.example.com", false, "", "")
	if !strings.HasPrefix(got, "GET / HTTP/1.1\r\n") {
		t.Errorf("request line wrong:\n%s", got)
	}
	for _, want := range []string{
		"Host: www.example.com\r\n",
		"User-Agent: " + DefaultUserAgent + "\r\n",
		"Connection: close\r\n",
		"Accept: */*\r\n",
		"Accept-Encoding: chunked;q=1.0, identity;q=1.0, gzip;q=1.0, deflate;q=1.0\r\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r\n\r\n") {
		t.Error("missing blank line terminator")
	}
	if strings.Contains(got, "compress") {
		t.Error("compress must never be offered")
	}
}

func TestSerializeDisabledEncodingWeighted(t *testing.T) {
	r := NewRequest()
	r.Encodings.Gzip = 0
	got := serialize(t, r, "http://www.example.com", false, "", "")
	if !strings.Contains(got, "gzip;q=0.0") {
		t.Errorf("disabled gzip not advertised with q=0:\n%s", got)
	}
}

func TestSerializeBody(t *testing.T) {
	r := NewRequest()
	r.Method = "POST"
	r.Body = []byte("name=x")
	r.BodyMIME = "application/x-www-form-urlencoded"
	got := serialize(t, r, "http://www.example.com/submit", false, "", "")
	if !strings.Contains(got, "Content-Length: 6\r\n") {
		t.Errorf("missing content length:\n%s", got)
	}
	if !strings.Contains(got, "Content-Type: application/x-www-form-urlencoded\r\n") {
		t.Errorf("missing content type:\n%s", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\nname=x") {
		t.Errorf("body not last:\n%s", got)
	}
}

func TestSerializeChunkedTransfer(t *testing.T) {
	r := NewRequest()
	r.Method = "POST"
	r.Body = []byte("hello world")
	r.TransferEncoding = "chunked"
	got := serialize(t, r, "http://www.example.com/up", false, "", "")
	if !strings.Contains(got, "Transfer-Encoding: chunked\r\n") {
		t.Errorf("missing transfer encoding header:\n%s", got)
	}
	_, body, _ := strings.Cut(got, "\r\n\r\n")
	decoded, ok := codec.DecodeChunked([]byte(body))
	if !ok || string(decoded) != "hello world" {
		t.Errorf("body not chunked-framed: %q", body)
	}
}

func TestSerializeGzipContent(t *testing.T) {
	r := NewRequest()
	r.Method = "PUT"
	r.Body = bytes.Repeat([]byte("data"), 100)
	r.ContentEncoding = "gzip"
	got := serialize(t, r, "http://www.example.com/obj", false, "", "")
	if !strings.Contains(got, "Content-Encoding: gzip\r\n") {
		t.Errorf("missing content encoding header:\n%s", got)
	}
	_, body, _ := strings.Cut(got, "\r\n\r\n")
	decoded, ok := codec.DecodeGzip([]byte(body))
	if !ok || !bytes.Equal(decoded, r.Body) {
		t.Error("body not gzip encoded")
	}
}

func TestSerializeRange(t *testing.T) {
	r := NewRequest()
	r.Range = ByteRange{Start: 100, End: 499}
	got := serialize(t, r, "http://www.example.com/big", false, "", "")
	if !strings.Contains(got, "Range: bytes=100-499\r\n") {
		t.Errorf("missing range header:\n%s", got)
	}
	r.Range = ByteRange{Start: 500}
	got = serialize(t, r, "http://www.example.com/big", false, "", "")
	if !strings.Contains(got, "Range: bytes=500-\r\n") {
		t.Errorf("missing open range header:\n%s", got)
	}
}

func TestSerializeCookieAndAuth(t *testing.T) {
	r := NewRequest()
	got := serialize(t, r, "http://www.example.com", false, "a=1; b=2", "Basic Zm9vOmJhcg==")
	if !strings.Contains(got, "Cookie: a=1; b=2\r\n") {
		t.Errorf("missing cookie header:\n%s", got)
	}
	if !strings.Contains(got, "Authorization: Basic Zm9vOmJhcg==\r\n") {
		t.Errorf("missing authorization header:\n%s", got)
	}
}

func TestSerializeAbsoluteFormForProxy(t *testing.T) {
	r := NewRequest()
	got := serialize(t, r, "http://www.example.com/x?q=1", true, "", "")
	if !strings.HasPrefix(got, "GET http://www.example.com/x?q=1 HTTP/1.1\r\n") {
		t.Errorf("proxy request not absolute-form:\n%s", got)
	}
}

func TestSerializeExtraHeadersOrdered(t *testing.T) {
	r := NewRequest()
	r.Header.Set("X-First", "1")
	r.Header.Set("X-Second", "2")
	r.Header.Set("X-First", "one") // last write wins, position kept
	got := serialize(t, r, "http://www.example.com", false, "", "")
	first := strings.Index(got, "X-First: one\r\n")
	second := strings.Index(got, "X-Second: 2\r\n")
	if first < 0 || second < 0 || first > second {
		t.Errorf("extra headers wrong or misordered:\n%s", got)
	}
}

func TestPrepareRejectsBadHeader(t *testing.T) {
	r := NewRequest()
	r.Header.Set("Bad\nName", "x")
	u, _ := ParseTarget("http://www.example.com")
	if _, err := r.Prepare(u, false, "", ""); err == nil {
		t.Error("invalid header name accepted")
	}
}

func TestFragmentNotSerialized(t *testing.T) {
	r := NewRequest()
	got := serialize(t, r, "http://www.example.com/page?x=1#frag", false, "", "")
	if strings.Contains(got, "frag") {
		t.Errorf("fragment leaked into the request:\n%s", got)
	}
}
