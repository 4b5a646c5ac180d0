// Package wirehttp is an HTTP/1.1 client built directly on stream sockets:
// request framing, transfer and content codings, cookies, Basic and Digest
// authentication, redirects and HTTP proxying are all implemented here
// rather than delegated to an HTTP stack.
package wirehttp

import (
	"github.com/wirehttp/go-wirehttp/internal"
	"github.com/wirehttp/go-wirehttp/internal/cookies"
	"github.com/wirehttp/go-wirehttp/internal/header"
	"github.com/wirehttp/go-wirehttp/internal/model"
	"github.com/wirehttp/go-wirehttp/internal/multipart"
)

type Client = internal.Client
type BodyBuilder = internal.BodyBuilder

type Request = model.Request
type Result = model.Result
type TargetURI = model.TargetURI
type Encodings = model.Encodings
type Credentials = model.Credentials
type ByteRange = model.ByteRange

type Header = header.Map
type Cookie = cookies.Cookie
type CookieJar = cookies.Jar

type MultipartBuilder = multipart.Builder

// New returns a Client with default configuration.
func New() *Client { return internal.New() }

// NewMultipart returns an empty multipart/form-data body builder.
func NewMultipart() *MultipartBuilder { return multipart.New() }
