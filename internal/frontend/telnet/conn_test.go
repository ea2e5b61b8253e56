package telnet

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// pipe returns a Conn reading what the returned client writes.
func pipe(t *testing.T, readTimeout time.Duration) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewConn(server, readTimeout, time.Second), client
}

func send(t *testing.T, client net.Conn, data []byte) {
	t.Helper()
	go func() { _, _ = client.Write(data) }()
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"lf", []byte("hello\n"), "hello"},
		{"crlf", []byte("hello\r\n"), "hello"},
		{"cr nul", []byte{'h', 'i', '\r', 0}, "hi"},
		{"negotiation", []byte{IAC, WILL, OptEcho, 'o', 'k', '\n'}, "ok"},
		{"subnegotiation", []byte{IAC, SB, 24, 0, 'x', 't', IAC, SE, 'z', '\n'}, "z"},
		{"nop", []byte{'x', IAC, NOP, 'y', '\n'}, "xy"},
		{"control characters", []byte{'a', 7, 'b', '\t', 'c', '\n'}, "ab\tc"},
		{"backspace", []byte("figt\bht\n"), "fight"},
		{"delete past start", []byte{127, 127, 'a', '\n'}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, client := pipe(t, time.Second)
			send(t, client, tt.input)
			got, err := conn.ReadLine()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLine_Truncates(t *testing.T) {
	conn, client := pipe(t, time.Second)
	long := make([]byte, maxLineLength+100)
	for i := range long {
		long[i] = 'a'
	}
	send(t, client, append(long, '\n'))
	got, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Len(t, got, maxLineLength)
}

func TestReadLine_Timeout(t *testing.T) {
	conn, _ := pipe(t, 20*time.Millisecond)
	_, err := conn.ReadLine()
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestReadLine_EOF(t *testing.T) {
	conn, client := pipe(t, time.Second)
	go func() {
		_, _ = client.Write([]byte("part"))
		client.Close()
	}()
	got, err := conn.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "part", got)
}

func TestWriteLines(t *testing.T) {
	conn, client := pipe(t, time.Second)
	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := io.ReadAtLeast(client, buf, len("a\r\nb\r\nc\r\n"))
		done <- buf[:n]
	}()
	require.NoError(t, conn.WriteLines("a", "b\nc"))
	assert.Equal(t, "a\r\nb\r\nc\r\n", string(<-done))
}

func TestReadPassword_TogglesEcho(t *testing.T) {
	conn, client := pipe(t, time.Second)
	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 3)
		_, _ = io.ReadFull(client, buf)
		_, _ = client.Write([]byte("secret\r\n"))
		rest := make([]byte, 5)
		_, _ = io.ReadFull(client, rest)
		got <- append(buf, rest...)
	}()
	pw, err := conn.ReadPassword()
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
	assert.Equal(t, []byte{IAC, WILL, OptEcho, IAC, WONT, OptEcho, '\r', '\n'}, <-got)
}

// Property: printable input without IAC is read back verbatim.
func TestPropertyReadLine_Printable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[ -~]{0,100}`).Draw(rt, "line")
		server, client := net.Pipe()
		defer server.Close()
		defer client.Close()
		conn := NewConn(server, time.Second, time.Second)
		go func() { _, _ = client.Write([]byte(s + "\r\n")) }()
		got, err := conn.ReadLine()
		if err != nil {
			rt.Fatalf("ReadLine: %v", err)
		}
		if got != s {
			rt.Fatalf("ReadLine = %q, want %q", got, s)
		}
	})
}
