package handlers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/clash/internal/testutil"
)

func TestAuth_WelcomeAndQuit(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)

	banner := c.Expect("> ")
	assert.Contains(t, banner, "E P I C   C L A S H")
	c.Send("quit")
	c.Expect("Goodbye!")
	assert.True(t, c.Closed(2*time.Second))
}

func TestAuth_Help(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")
	c.Send("help")
	out := c.Expect("Disconnect")
	assert.Contains(t, out, "login <username> [password]")
	assert.Contains(t, out, "register <username> <password>")
}

func TestAuth_UnknownCommand(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")
	c.Send("dance")
	c.Expect("Unknown command: dance. Type 'help' for available commands.")
}

func TestAuth_RegisterValidation(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")

	tests := []struct {
		line string
		want string
	}{
		{"register", "Usage: register <username> <password>"},
		{"register al secret123", "Username must be 3-32 characters."},
		{"register alice short", "Password must be 6-72 characters."},
		{"register alice secret123", "Account created: alice. You may now 'login'."},
		{"register alice other456", "That username is already taken."},
	}
	for _, tt := range tests {
		c.Send(tt.line)
		c.Expect(tt.want)
		c.Expect("> ")
	}
}

func TestAuth_LoginFailures(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")

	c.Send("login ghost secret123")
	c.Expect("Account not found. Use 'register' to create one.")

	c.Send("register alice secret123")
	c.Expect("Account created")
	c.Send("login alice wrongpass")
	c.Expect("Invalid password.")
	c.Send("login")
	c.Expect("Usage: login <username> [password]")
}

func TestAuth_LoginPromptsForPassword(t *testing.T) {
	srv := startServer(t, serverOpts{})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")
	c.Send("register alice secret123")
	c.Expect("Account created")

	c.Send("login alice")
	c.Expect("Password: ")
	c.Send("secret123")
	c.Expect("Welcome back, alice!")
	c.Expect("[alice]> ")
}

func TestAuth_IdleDisconnect(t *testing.T) {
	srv := startServer(t, serverOpts{readTimeout: 150 * time.Millisecond})
	c := testutil.NewTelnetClient(t, srv.addr)
	c.Expect("> ")
	c.Expect("Idle too long. Goodbye!")
	assert.True(t, c.Closed(2*time.Second))
}
