package auth

import (
	"strings"
	"testing"
)

func TestBasic(t *testing.T) {
	if got := Basic("Aladdin", "open sesame"); got != "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==" {
		t.Errorf("Basic = %q", got)
	}
}

// the worked example from RFC 2617 section 3.5
func TestDigestResponseKnownVector(t *testing.T) {
	got := DigestResponse(
		"Mufasa", "testrealm@host.com", "Circle Of Life",
		"GET", "/dir/index.html",
		"dcd98b7102dd2f0e8b11d0f600bfb0c093", "00000001", "0a4f113b", "auth",
	)
	if got != "6629fae49393a05397450978507c4ef1" {
		t.Errorf("response = %q", got)
	}
}

func TestDigestResponseDeterministic(t *testing.T) {
	args := []string{"u", "r", "p", "GET", "/x", "n", "00000001", "c", "auth"}
	call := func(a []string) string {
		return DigestResponse(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8])
	}
	base := call(args)
	if base != call(args) {
		t.Fatal("equal inputs produced different hashes")
	}
	for i := range args {
		mutated := append([]string{}, args...)
		mutated[i] += "!"
		if call(mutated) == base {
			t.Errorf("changing input %d did not change the hash", i)
		}
	}
}

func TestParseChallengeDigest(t *testing.T) {
	scheme, ch, ok := ParseChallenge(
		`Digest realm="testrealm@host.com", qop="auth,auth-int", nonce="dcd98b", opaque="5ccc"`)
	if !ok || scheme != "Digest" {
		t.Fatalf("scheme = %q ok = %v", scheme, ok)
	}
	if ch.Realm != "testrealm@host.com" || ch.Nonce != "dcd98b" || ch.Opaque != "5ccc" {
		t.Errorf("challenge = %+v", ch)
	}
}

func TestParseChallengeBasic(t *testing.T) {
	scheme, ch, ok := ParseChallenge(`Basic realm="WallyWorld"`)
	if !ok || scheme != "Basic" || ch.Realm != "WallyWorld" {
		t.Errorf("scheme=%q ch=%+v ok=%v", scheme, ch, ok)
	}
}

func TestEngineIgnoresUnknownScheme(t *testing.T) {
	e := NewEngine()
	e.OnChallenge("Negotiate")
	if e.State() != None {
		t.Error("unknown scheme armed the engine")
	}
	e.OnChallenge(`NTLM realm="x"`)
	if e.State() != None {
		t.Error("NTLM challenge armed the engine")
	}
}

func TestEngineStates(t *testing.T) {
	e := NewEngine()
	e.OnChallenge(`Basic realm="a"`)
	if e.State() != BasicPending {
		t.Fatalf("state = %v", e.State())
	}
	e.Reset()
	e.OnChallenge(`Digest realm="a", nonce="n1", qop="auth"`)
	if e.State() != DigestPending {
		t.Fatalf("state = %v", e.State())
	}
}

func TestDigestHeaderFields(t *testing.T) {
	e := NewEngine()
	e.cnonce = func() string { return "deadbeef01020304" }
	e.OnChallenge(`Digest realm="r", nonce="n", qop="auth", algorithm=MD5`)
	h, err := e.Header("alice", "pw", "GET", "/index")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`Digest username="alice"`,
		`realm="r"`,
		`qop=auth`,
		`algorithm=MD5`,
		`uri="/index"`,
		`nonce="n"`,
		`nc=00000001`,
		`cnonce="deadbeef01020304"`,
		`response="`,
	} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q:\n%s", want, h)
		}
	}
	if strings.Contains(h, "opaque") {
		t.Error("empty opaque was emitted")
	}
}

func TestHeaderNoChallenge(t *testing.T) {
	e := NewEngine()
	h, err := e.Header("u", "p", "GET", "/")
	if err != nil || h != "" {
		t.Errorf("got %q, %v", h, err)
	}
}
