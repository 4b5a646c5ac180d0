package internal

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/wirehttp/go-wirehttp/internal/auth"
	"github.com/wirehttp/go-wirehttp/internal/cookies"
	"github.com/wirehttp/go-wirehttp/internal/dialer"
	"github.com/wirehttp/go-wirehttp/internal/header"
	"github.com/wirehttp/go-wirehttp/internal/model"
	"github.com/wirehttp/go-wirehttp/internal/transport"
)

type PreparedRequest = model.PreparedRequest

// Dialer obtains the stream for one exchange. Swapped in tests for scripted
// in-memory streams.
type Dialer func(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error)

var defaultDialer = &dialer.CoreDialer{}

func defaultDial(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error) {
	return defaultDialer.Dial(ctx, r)
}

// BodyBuilder is the multipart collaborator contract: anything that can
// hand over finished body bytes and their content type can feed a POST.
type BodyBuilder interface {
	Compile() []byte
	ContentType() string
}

// Client drives full request/response cycles over single-use connections.
// One instance owns its configuration, cookie jar and auth state; it is not
// safe for concurrent use, callers wanting parallelism use one Client per
// goroutine.
type Client struct {
	// Request is the client configuration. Mutate it between calls, never
	// during one.
	Request *model.Request
	// Jar accumulates cookies across exchanges and redirects.
	Jar *cookies.Jar

	Result model.Result

	engine     *auth.Engine
	dialer     Dialer
	rawRequest []byte
}

func New() *Client {
	c := &Client{
		Request: model.NewRequest(),
		Jar:     cookies.NewJar(),
		engine:  auth.NewEngine(),
	}
	c.Result.Reset()
	return c
}

// UseDialer replaces the connection factory, mainly for tests.
func (c *Client) UseDialer(d Dialer) { c.dialer = d }

func (c *Client) dial(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error) {
	if c.dialer != nil {
		return c.dialer(ctx, r)
	}
	return defaultDial(ctx, r)
}

// Send runs the full exchange loop against rawURL. A non-empty method
// overrides the configured one, a non-nil body overrides the configured
// body. It returns true iff the final exchange carries no error; the
// result fields stay readable either way.
func (c *Client) Send(rawURL string, body []byte, method string) bool {
	return c.CtxSend(context.Background(), rawURL, body, method)
}

// CtxSend is Send with a caller context for the connection attempts. An
// exchange in flight is otherwise bounded only by the configured timeout.
func (c *Client) CtxSend(ctx context.Context, rawURL string, body []byte, method string) bool {
	if method != "" {
		c.Request.Method = method
	}
	if body != nil {
		c.Request.Body = body
	}

	c.engine.Reset()
	u, err := model.ParseTarget(rawURL)
	if err != nil {
		c.Result.Reset()
		c.Result.Fail(err.Error())
		return false
	}

	c.exchange(ctx, u)

	authRetried := false
	hops := 0
	for {
		code := c.Result.StatusCode
		if code == 401 && c.engine.State() != auth.None && !authRetried {
			// exactly one retry with the Authorization header; a second
			// 401 means the credentials are wrong, not the attempt
			authRetried = true
			c.exchange(ctx, u)
			continue
		}
		if (code == 301 || code == 302 || code == 303) && c.Request.FollowRedirects {
			location := c.Result.Headers.Get("Location")
			if location == "" {
				break
			}
			hops++
			if hops > c.Request.HopLimit() {
				c.Result.Fail("stopped after " + strconv.Itoa(c.Request.HopLimit()) + " redirects")
				break
			}
			next, err := u.Merge(location)
			if err != nil {
				c.Result.Fail(err.Error())
				break
			}
			u = next
			// a redirect is always refetched as a bodiless GET
			c.Request.Method = "GET"
			c.Request.Body = nil
			c.Request.BodyMIME = ""
			c.exchange(ctx, u)
			continue
		}
		break
	}
	return !c.Result.HasError()
}

// exchange runs one connect/build/send/read/parse/disconnect cycle. All
// failures land in c.Result; the connection is closed on every path.
func (c *Client) exchange(ctx context.Context, u *model.TargetURI) {
	c.Result.Reset()

	fullPath := u.FullPath(c.Request.Method)
	cookieHeader := c.Jar.Compile(u.Host, fullPath)

	authHeader := ""
	if c.engine.State() != auth.None {
		creds := c.Request.Credentials
		if creds.User == "" && u.User != "" {
			creds = model.Credentials{User: u.User, Pass: u.Pass}
		}
		h, err := c.engine.Header(creds.User, creds.Pass, c.Request.Method, fullPath)
		if err != nil {
			c.Result.Fail(err.Error())
			return
		}
		authHeader = h
		c.engine.Reset() // a challenge answers exactly one request
	}

	viaProxy := c.Request.Proxy.Enabled() && u.Scheme == "http"
	pr, err := c.Request.Prepare(u, viaProxy, cookieHeader, authHeader)
	if err != nil {
		c.Result.Fail(err.Error())
		return
	}

	conn, err := c.dial(ctx, pr)
	if err != nil {
		c.Result.Fail(err.Error())
		return
	}
	defer conn.Close()

	raw, err := transport.Write(conn, pr)
	c.rawRequest = raw
	if err != nil {
		c.Result.Fail(err.Error())
		return
	}
	head, body, err := transport.ReadRaw(conn, c.Request.Timeout)
	if err != nil {
		c.Result.Fail(err.Error())
		return
	}
	transport.Parse(head, body, c.Jar, c.engine, &c.Result)
}

// GetURLEncoded URL-encodes fields into the query string and GETs the
// result.
func (c *Client) GetURLEncoded(rawURL string, fields map[string]string) bool {
	q := encodeFields(fields)
	if q != "" {
		sep := "?"
		for i := 0; i < len(rawURL); i++ {
			if rawURL[i] == '?' {
				sep = "&"
				break
			}
		}
		rawURL += sep + q
	}
	return c.Send(rawURL, nil, "GET")
}

// PostURLEncoded posts fields as an application/x-www-form-urlencoded body.
func (c *Client) PostURLEncoded(rawURL string, fields map[string]string) bool {
	c.Request.BodyMIME = "application/x-www-form-urlencoded"
	return c.Send(rawURL, []byte(encodeFields(fields)), "POST")
}

// PostMultipart posts a body compiled by the multipart collaborator.
func (c *Client) PostMultipart(rawURL string, b BodyBuilder) bool {
	c.Request.BodyMIME = b.ContentType()
	return c.Send(rawURL, b.Compile(), "POST")
}

func encodeFields(fields map[string]string) string {
	v := url.Values{}
	for k, val := range fields {
		v.Set(k, val)
	}
	return v.Encode()
}

// SetHeader sets a caller-supplied header; an empty value removes it.
func (c *Client) SetHeader(name, value string) {
	if value == "" {
		c.Request.Header.Del(name)
		return
	}
	c.Request.Header.Set(name, value)
}

// AddCookies seeds the jar with bare name=value session cookies.
func (c *Client) AddCookies(m map[string]string) {
	for name, value := range m {
		c.Jar.SetPair(name, value)
	}
}

// HasError reports whether the last exchange failed.
func (c *Client) HasError() bool { return c.Result.HasError() }

// Error returns the last exchange's error text, empty on success.
func (c *Client) Error() string { return c.Result.Err }

// StatusCode returns the last exchange's numeric status.
func (c *Client) StatusCode() int { return c.Result.StatusCode }

// RawRequest returns the literal bytes last written to the wire.
func (c *Client) RawRequest() []byte { return c.rawRequest }

// Body returns the decoded response body.
func (c *Client) Body() []byte { return c.Result.Body }

// RawResponse returns the body bytes as read off the wire, undecoded.
func (c *Client) RawResponse() []byte { return c.Result.Raw }

// Headers returns the parsed response headers.
func (c *Client) Headers() *header.Map { return c.Result.Headers }

// Cookies returns the jar's contents in insertion order.
func (c *Client) Cookies() []cookies.Cookie { return c.Jar.All() }
