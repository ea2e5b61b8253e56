package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/clash/internal/frontend/telnet"
)

// DefaultTimeout bounds every Expect call that does not pass its own.
const DefaultTimeout = 5 * time.Second

// TelnetClient is a plain-text player for end-to-end session tests. It drops
// IAC negotiation bytes and ANSI colors from everything it reads, so
// assertions can match the text a player would see.
type TelnetClient struct {
	conn net.Conn
	t    *testing.T
	// pending holds text read past the last match.
	pending string
}

// NewTelnetClient dials addr.
//
// Precondition: addr must be a "host:port" with a listening server.
// Postcondition: Returns a connected client closed on test cleanup, or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{conn: conn, t: t}
}

// Expect reads until substr appears in the cleaned output and returns
// everything up to and including it. Text after the match is kept for the
// next call.
func (c *TelnetClient) Expect(substr string) string {
	c.t.Helper()
	return c.ExpectWithin(substr, DefaultTimeout)
}

// ExpectWithin is Expect with an explicit timeout.
func (c *TelnetClient) ExpectWithin(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	buf := c.pending
	tmp := make([]byte, 1024)
	for {
		if i := strings.Index(buf, substr); i >= 0 {
			end := i + len(substr)
			c.pending = buf[end:]
			return buf[:end]
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf += telnet.StripANSI(string(dropIAC(tmp[:n])))
		}
		if err != nil {
			c.pending = ""
			c.t.Fatalf("waiting for %q: got %q, error: %v", substr, buf, err)
		}
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Login registers username and logs in, waiting for the in-game prompt.
func (c *TelnetClient) Login(username, password string) {
	c.t.Helper()
	c.Expect("> ")
	c.Send("register " + username + " " + password)
	c.Expect("Account created")
	c.Expect("> ")
	c.Send("login " + username + " " + password)
	c.Expect("[" + username + "]> ")
}

// Closed reports whether the server has closed the connection within timeout.
func (c *TelnetClient) Closed(timeout time.Duration) bool {
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	tmp := make([]byte, 256)
	for {
		if _, err := c.conn.Read(tmp); err != nil {
			var ne net.Error
			return !errors.As(err, &ne) || !ne.Timeout()
		}
	}
}

// Close closes the connection.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}

// dropIAC removes the three-byte option negotiations the server sends.
func dropIAC(b []byte) []byte {
	if bytes.IndexByte(b, telnet.IAC) < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == telnet.IAC {
			i += 2
			continue
		}
		out = append(out, b[i])
	}
	return out
}
