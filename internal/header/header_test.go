package header

import (
	"reflect"
	"testing"
)

func TestMapCaseInsensitive(t *testing.T) {
	m := NewMap()
	m.Set("Content-Type", "text/html")
	for _, name := range []string{"Content-Type", "content-type", "CONTENT-TYPE", "cOnTeNt-TyPe"} {
		if got := m.Get(name); got != "text/html" {
			t.Errorf("Get(%q) = %q", name, got)
		}
	}
}

func TestMapLastWriteWins(t *testing.T) {
	m := NewMap()
	m.Set("X-Thing", "one")
	m.Set("x-thing", "two")
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if got := m.Get("X-Thing"); got != "two" {
		t.Errorf("Get = %q, want %q", got, "two")
	}
	// the original spelling and position survive the rewrite
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"X-Thing"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestMapOrder(t *testing.T) {
	m := NewMap()
	m.Set("B", "2")
	m.Set("A", "1")
	m.Set("C", "3")
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"B", "A", "C"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestMapDel(t *testing.T) {
	m := NewMap()
	m.Set("One", "1")
	m.Set("Two", "2")
	m.Del("ONE")
	if _, ok := m.Lookup("one"); ok {
		t.Error("deleted key still present")
	}
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"Two"}) {
		t.Errorf("Keys = %v", keys)
	}
	m.Del("never-there") // no-op
}

func TestIsContinuation(t *testing.T) {
	cases := map[string]bool{
		" folded piece":        true,
		"\tfolded piece":       true,
		"no colon here":        true,
		"Content-Type: text":   false,
		"X: y":                 false,
		"bad name: with space": true,
		"":                     false,
	}
	for line, want := range cases {
		if got := IsContinuation(line); got != want {
			t.Errorf("IsContinuation(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestStatusText(t *testing.T) {
	cases := map[int]string{
		200: "OK",
		304: "Not Modified",
		404: "Not Found",
		479: "Bad Request",           // unknown code, 4xx family fallback
		542: "Internal Server Error", // unknown code, 5xx family fallback
		999: "",                      // whole family unknown
	}
	for code, want := range cases {
		if got := StatusText(code); got != want {
			t.Errorf("StatusText(%d) = %q, want %q", code, got, want)
		}
	}
}
