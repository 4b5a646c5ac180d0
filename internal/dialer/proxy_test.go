package dialer

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/wirehttp/go-wirehttp/internal/model"
)

func prepared(t *testing.T, rawURL string, proxy model.ProxyConfig) *model.PreparedRequest {
	t.Helper()
	u, err := model.ParseTarget(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	r := model.NewRequest()
	r.Proxy = proxy
	pr, err := r.Prepare(u, false, "", "")
	if err != nil {
		t.Fatal(err)
	}
	return pr
}

// proxyScript acts as the proxy end of a CONNECT exchange over a pipe.
func proxyScript(t *testing.T, conn net.Conn, reply string) <-chan string {
	t.Helper()
	got := make(chan string, 1)
	go func() {
		defer close(got)
		br := bufio.NewReader(conn)
		var lines []string
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimRight(line, "\r\n") == "" {
				break
			}
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		conn.Write([]byte(reply))
		got <- strings.Join(lines, "\n")
	}()
	return got
}

func TestConnectHandshake(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	pr := prepared(t, "https://secure.example.com/x", model.ProxyConfig{Host: "proxy", Port: 3128})
	got := proxyScript(t, server, "HTTP/1.1 200 Connection established\r\n\r\n")

	if err := connectHandshake(client, pr, "proxy:3128"); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	req := <-got
	if !strings.HasPrefix(req, "CONNECT secure.example.com:443 HTTP/1.1") {
		t.Errorf("request = %q", req)
	}
	if !strings.Contains(req, "Host: secure.example.com:443") {
		t.Errorf("missing Host in %q", req)
	}
	if strings.Contains(req, "Proxy-Authorization") {
		t.Error("credentials sent without being configured")
	}
}

func TestConnectHandshakeAuth(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	pr := prepared(t, "https://secure.example.com/", model.ProxyConfig{
		Host: "proxy", Port: 3128, User: "u", Pass: "p",
	})
	got := proxyScript(t, server, "HTTP/1.1 200 OK\r\n\r\n")

	if err := connectHandshake(client, pr, "proxy:3128"); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	if req := <-got; !strings.Contains(req, "Proxy-Authorization: Basic dTpw") {
		t.Errorf("missing proxy credentials in %q", req)
	}
}

func TestConnectHandshakeRefused(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	pr := prepared(t, "https://secure.example.com/", model.ProxyConfig{Host: "proxy", Port: 3128})
	proxyScript(t, server, "HTTP/1.1 403 Forbidden\r\n\r\n")

	err := connectHandshake(client, pr, "proxy:3128")
	if err == nil {
		t.Fatal("403 CONNECT accepted")
	}
	if _, ok := err.(*model.ProxyTunnelError); !ok {
		t.Errorf("error type %T, want *model.ProxyTunnelError", err)
	}
}
