package telnet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, RFC 857, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
)

// maxLineLength bounds a single input line; longer input is truncated.
const maxLineLength = 512

// Conn is a line-oriented Telnet connection. Negotiation bytes sent by the
// client are consumed and never reach the caller.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
// A zero timeout disables the corresponding deadline.
//
// Precondition: raw must be a valid, open network connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead so clients run in character mode.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads one line of input without its terminator. Control
// characters other than tab are dropped and backspace edits the line.
//
// Postcondition: Returns the line, or an error (io.EOF, a timeout, ...)
// together with whatever was read before it.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b == '\b' || b == 127:
			if line.Len() > 0 {
				line.Truncate(line.Len() - 1)
			}
		case b < 32 && b != '\t':
		default:
			if line.Len() < maxLineLength {
				line.WriteByte(b)
			}
		}
	}
}

// skipCommand consumes the rest of a command whose IAC byte was just read.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	}
	return nil
}

// ReadPassword reads a line with client echo suppressed, then restores echo
// and advances the cursor past the hidden input.
func (c *Conn) ReadPassword() (string, error) {
	if err := c.Write([]byte{IAC, WILL, OptEcho}); err != nil {
		return "", err
	}
	line, err := c.ReadLine()
	_ = c.Write([]byte{IAC, WONT, OptEcho, '\r', '\n'})
	return line, err
}

// WriteLine sends text followed by CRLF. Embedded newlines are normalized.
func (c *Conn) WriteLine(text string) error {
	return c.WriteString(normalize(text) + "\r\n")
}

// WriteLines sends each line followed by CRLF in a single write.
func (c *Conn) WriteLines(lines ...string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(normalize(l))
		b.WriteString("\r\n")
	}
	return c.WriteString(b.String())
}

// WritePrompt sends a prompt without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	return c.WriteString(prompt)
}

// WriteString sends s unchanged.
func (c *Conn) WriteString(s string) error {
	return c.Write([]byte(s))
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if _, err := c.raw.Write(data); err != nil {
		return fmt.Errorf("writing to %s: %w", c.raw.RemoteAddr(), err)
	}
	return nil
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// IsTimeout reports whether err is a read or write deadline expiry.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func normalize(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
