package multipart

import (
	"bytes"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"strings"
	"testing"
)

func TestCompileParsesWithStdlib(t *testing.T) {
	b := New()
	b.AddField("name", "alice")
	b.AddField("role", "admin")
	b.AddFile("avatar", "a.png", "image/png", []byte{0x89, 'P', 'N', 'G'})

	_, params, err := mime.ParseMediaType(b.ContentType())
	if err != nil {
		t.Fatal(err)
	}
	mr := stdmultipart.NewReader(bytes.NewReader(b.Compile()), params["boundary"])

	got := map[string]string{}
	var fileData []byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(p)
		if p.FileName() != "" {
			fileData = data
			if p.Header.Get("Content-Type") != "image/png" {
				t.Errorf("file content type = %q", p.Header.Get("Content-Type"))
			}
		} else {
			got[p.FormName()] = string(data)
		}
	}
	if got["name"] != "alice" || got["role"] != "admin" {
		t.Errorf("fields = %v", got)
	}
	if !bytes.Equal(fileData, []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("file data = %v", fileData)
	}
}

func TestContentTypeNamesBoundary(t *testing.T) {
	b := New()
	ct := b.ContentType()
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("ContentType = %q", ct)
	}
	if !strings.Contains(string(b.Compile()), "--"+strings.TrimPrefix(ct, "multipart/form-data; boundary=")) {
		t.Error("body does not use the advertised boundary")
	}
}

func TestFromFields(t *testing.T) {
	b := FromFields(map[string]string{"k": "v"})
	if !strings.Contains(string(b.Compile()), `name="k"`) {
		t.Error("field missing from compiled body")
	}
}

func TestBoundariesAreUnique(t *testing.T) {
	if New().ContentType() == New().ContentType() {
		t.Error("two builders share a boundary")
	}
}
