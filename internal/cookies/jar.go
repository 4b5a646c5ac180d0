// Package cookies implements the client's cookie jar: parsing Set-Cookie
// response lines, filtering by expiry, domain and path, and rendering the
// Cookie request header.
package cookies

import (
	"strings"
	"time"
)

// Cookie is one stored cookie. The zero Expires means a session cookie.
type Cookie struct {
	Name    string
	Value   string
	Domain  string
	Path    string
	Expires time.Time
	Secure  bool
}

// Expired reports whether c carries an expiry in the past relative to now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// expiresFormats lists the date layouts seen in Set-Cookie headers, most
// common first.
var expiresFormats = []string{
	time.RFC1123,
	"Mon, 02-Jan-2006 15:04:05 MST",
	"Mon, 02-Jan-06 15:04:05 MST",
	time.RFC1123Z,
	time.ANSIC,
}

// Parse reads a Set-Cookie header value. The first name=value pair is the
// cookie identity; the remaining semicolon-separated pairs set the known
// attributes (domain, expires, path, secure, and the ignored comment and
// version). A line with no identity pair is rejected.
func Parse(line string) (Cookie, bool) {
	var c Cookie
	parts := strings.Split(line, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok || name == "" {
		return c, false
	}
	c.Name, c.Value = name, value
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(p), "=")
		switch strings.ToLower(k) {
		case "domain":
			c.Domain = v
		case "path":
			c.Path = v
		case "secure":
			c.Secure = true
		case "expires":
			for _, layout := range expiresFormats {
				if t, err := time.Parse(layout, v); err == nil {
					c.Expires = t
					break
				}
			}
		case "comment", "version":
			// recognized, carried nowhere
		}
	}
	return c, true
}

// Jar stores cookies keyed by name only; redefining a name replaces the
// previous entry regardless of domain or path. Insertion order is kept for
// stable Cookie header rendering.
type Jar struct {
	order   []string
	cookies map[string]Cookie
	now     func() time.Time // test hook
}

func NewJar() *Jar {
	return &Jar{cookies: map[string]Cookie{}, now: time.Now}
}

// Set stores c, replacing any previous cookie of the same name.
func (j *Jar) Set(c Cookie) {
	if _, ok := j.cookies[c.Name]; !ok {
		j.order = append(j.order, c.Name)
	}
	j.cookies[c.Name] = c
}

// SetPair stores a bare name=value session cookie.
func (j *Jar) SetPair(name, value string) {
	j.Set(Cookie{Name: name, Value: value})
}

// ParseSet parses a Set-Cookie line into the jar. Lines that fail to parse
// are dropped silently: a broken cookie never fails an exchange.
func (j *Jar) ParseSet(line string) {
	if c, ok := Parse(line); ok {
		j.Set(c)
	}
}

// All returns the stored cookies in insertion order, valid or not.
func (j *Jar) All() []Cookie {
	out := make([]Cookie, 0, len(j.order))
	for _, name := range j.order {
		out = append(out, j.cookies[name])
	}
	return out
}

// Check reports whether c may be sent to host with the given full request
// path: not expired, domain a substring match of host, path a substring
// match of fullPath. Empty domain or path match anything.
func (j *Jar) Check(c Cookie, host, fullPath string) bool {
	if c.Expired(j.now()) {
		return false
	}
	if c.Domain != "" && !strings.Contains(host, c.Domain) {
		return false
	}
	if c.Path != "" && !strings.Contains(fullPath, c.Path) {
		return false
	}
	return true
}

// Compile renders the Cookie header value for a request to host/fullPath,
// skipping entries that fail Check at compile time. The host and path are
// re-evaluated on every call: a redirect can move the request to a host the
// stored cookies no longer match. Returns "" when nothing applies.
func (j *Jar) Compile(host, fullPath string) string {
	var b strings.Builder
	for _, name := range j.order {
		c := j.cookies[name]
		if !j.Check(c, host, fullPath) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
	}
	return b.String()
}
