// Package multipart builds multipart/form-data request bodies. The client
// core only consumes the two outputs, Compile and ContentType; any other
// builder satisfying that pair works just as well.
package multipart

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type part struct {
	name     string
	filename string
	mime     string
	data     []byte
}

// Builder accumulates form fields and files, then renders them as one
// multipart/form-data body.
type Builder struct {
	boundary string
	parts    []part
}

func New() *Builder {
	return &Builder{boundary: newBoundary()}
}

// AddField appends a plain form field.
func (b *Builder) AddField(name, value string) {
	b.parts = append(b.parts, part{name: name, data: []byte(value)})
}

// AddFile appends a file part with an explicit filename and MIME type.
func (b *Builder) AddFile(name, filename, mime string, data []byte) {
	b.parts = append(b.parts, part{name: name, filename: filename, mime: mime, data: data})
}

// FromFields builds a Builder holding fields as plain parts.
func FromFields(fields map[string]string) *Builder {
	b := New()
	for name, value := range fields {
		b.AddField(name, value)
	}
	return b
}

// ContentType returns the Content-Type header value naming the boundary.
func (b *Builder) ContentType() string {
	return "multipart/form-data; boundary=" + b.boundary
}

// Compile renders the parts between boundary delimiters, with the
// terminating "--" delimiter at the end.
func (b *Builder) Compile() []byte {
	var buf bytes.Buffer
	for _, p := range b.parts {
		fmt.Fprintf(&buf, "--%s\r\n", b.boundary)
		if p.filename != "" {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=%q; filename=%q\r\n", p.name, p.filename)
		} else {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=%q\r\n", p.name)
		}
		if p.mime != "" {
			fmt.Fprintf(&buf, "Content-Type: %s\r\n", p.mime)
		}
		buf.WriteString("\r\n")
		buf.Write(p.data)
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", b.boundary)
	return buf.Bytes()
}

func newBoundary() string {
	var raw [16]byte
	rand.Read(raw[:])
	return "wirehttp-" + hex.EncodeToString(raw[:])
}
