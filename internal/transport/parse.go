package transport

import (
	"strconv"
	"strings"

	"github.com/wirehttp/go-wirehttp/internal/auth"
	"github.com/wirehttp/go-wirehttp/internal/codec"
	"github.com/wirehttp/go-wirehttp/internal/cookies"
	"github.com/wirehttp/go-wirehttp/internal/header"
	"github.com/wirehttp/go-wirehttp/internal/model"
)

// Parse fills res from a raw head block and body. Set-Cookie lines feed the
// jar, a 401 challenge arms the auth engine, and the body is decoded per
// Transfer-Encoding then Content-Encoding. Any final status outside
// {200, 304} sets the exchange error text.
func Parse(head, body []byte, jar *cookies.Jar, eng *auth.Engine, res *model.Result) {
	lines := splitLines(string(head))
	if len(lines) == 0 {
		res.Fail("empty response")
		return
	}
	parseStatusLine(lines[0], res)
	parseHeaders(lines[1:], jar, res)

	res.Raw = body
	res.Body, res.Decoded = decodeBody(body, res.Headers)

	if res.StatusCode == 401 {
		if ch := res.Headers.Get("WWW-Authenticate"); ch != "" {
			eng.OnChallenge(ch)
		}
	}
	if res.StatusCode != 200 && res.StatusCode != 304 {
		text := res.StatusText
		if text == "" {
			text = header.StatusText(res.StatusCode)
		}
		res.Fail(text)
	}
}

// parseStatusLine reads "HTTP/version code text". Missing reason text falls
// back to the lookup table, which itself falls back to the code's family.
func parseStatusLine(line string, res *model.Result) {
	proto, rest, _ := strings.Cut(line, " ")
	res.Proto = proto
	codeStr, text, _ := strings.Cut(strings.TrimSpace(rest), " ")
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		res.Fail("malformed status line: " + strconv.Quote(line))
		return
	}
	res.StatusCode = code
	res.StatusText = strings.TrimSpace(text)
	if res.StatusText == "" {
		res.StatusText = header.StatusText(code)
	}
}

// parseHeaders unfolds continuation lines (RFC 2616 folding), dispatches
// Set-Cookie to the jar and stores everything else in the header map.
func parseHeaders(lines []string, jar *cookies.Jar, res *model.Result) {
	var name, value string
	flush := func() {
		if name == "" {
			return
		}
		if strings.EqualFold(name, "Set-Cookie") {
			jar.ParseSet(value)
		} else {
			res.Headers.Set(name, value)
		}
		name, value = "", ""
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		if header.IsContinuation(line) {
			// folded line: joined to the previous value with one space
			if name != "" {
				value += " " + strings.TrimSpace(line)
			}
			continue
		}
		flush()
		n, v, _ := strings.Cut(line, ":")
		name, value = strings.TrimSpace(n), strings.TrimSpace(v)
	}
	flush()
}

// decodeBody applies Transfer-Encoding then Content-Encoding. Unknown
// coding names leave the body as is; so does any decode failure.
func decodeBody(body []byte, h *header.Map) ([]byte, bool) {
	decoded := false
	if te := strings.ToLower(strings.TrimSpace(h.Get("Transfer-Encoding"))); te == "chunked" {
		var ok bool
		body, ok = codec.DecodeChunked(body)
		decoded = decoded || ok
	}
	switch ce := strings.ToLower(strings.TrimSpace(h.Get("Content-Encoding"))); ce {
	case "gzip", "x-gzip":
		var ok bool
		body, ok = codec.DecodeGzip(body)
		decoded = decoded || ok
	case "deflate":
		var ok bool
		body, ok = codec.DecodeDeflate(body)
		decoded = decoded || ok
	case "compress", "x-compress":
		var ok bool
		body, ok = codec.DecodeCompress(body)
		decoded = decoded || ok
	}
	return body, decoded
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\r\n")
}
