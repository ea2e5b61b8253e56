// Package handlers runs clash Telnet sessions: account login, the player
// menu, and battle presentation on top of gameserver.Service.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/game/command"
	"github.com/cory-johannsen/clash/internal/gameserver"
	"github.com/cory-johannsen/clash/internal/observability"
	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

const welcomeBanner = "\r\n" + telnet.Bold + telnet.BrightYellow +
	"  ===============================\r\n" +
	"        E P I C   C L A S H\r\n" +
	"  ===============================" + telnet.Reset + "\r\n" +
	"  Heroes and monsters, one turn at a time.\r\n\r\n" +
	"  Type " + telnet.Green + "login <username> [password]" + telnet.Reset + " to connect.\r\n" +
	"  Type " + telnet.Green + "register <username> <password>" + telnet.Reset + " to create an account.\r\n" +
	"  Type " + telnet.Green + "quit" + telnet.Reset + " to disconnect.\r\n"

// Options tunes presentation.
type Options struct {
	// EnemyDelay pauses before the enemy's reply is printed.
	EnemyDelay time.Duration
}

// AuthHandler implements telnet.SessionHandler: it authenticates the client
// and then runs the player menu.
type AuthHandler struct {
	accounts AccountStore
	game     *gameserver.Service
	commands *command.Registry
	opts     Options
	logger   *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
//
// Precondition: accounts, game and logger must be non-nil.
func NewAuthHandler(accounts AccountStore, game *gameserver.Service, opts Options, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		game:     game,
		commands: command.DefaultRegistry(),
		opts:     opts,
		logger:   logger,
	}
}

// HandleSession implements telnet.SessionHandler. It shows the welcome banner
// and processes authentication commands until the player logs in or quits.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended abnormally.
func (h *AuthHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()
	logger := observability.SessionLogger(h.logger, addr, "")

	if err := conn.WriteString(welcomeBanner); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	for {
		if ctx.Err() != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		}
		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "> ")); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			if telnet.IsTimeout(err) {
				_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Idle too long. Goodbye!"))
			}
			return fmt.Errorf("reading input: %w", err)
		}

		parsed := command.Parse(line)
		switch parsed.Command {
		case "":
			continue

		case "quit", "exit":
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			logger.Info("client quit", zap.Duration("session_duration", time.Since(start)))
			return nil

		case "login":
			acct, ok, err := h.login(ctx, conn, parsed.Args, logger)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			s, err := h.newSession(ctx, conn, acct)
			if err != nil {
				return err
			}
			return s.run(ctx)

		case "register":
			h.register(ctx, conn, parsed.Args, logger)

		case "help":
			_ = conn.WriteLines(
				telnet.Colorize(telnet.BrightWhite, "Available commands:"),
				telnet.Colorize(telnet.Green, "  login <username> [password]")+"     Log in to your account",
				telnet.Colorize(telnet.Green, "  register <username> <password>")+"  Create a new account",
				telnet.Colorize(telnet.Green, "  help")+"                            Show this help",
				telnet.Colorize(telnet.Green, "  quit")+"                            Disconnect",
			)

		default:
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", parsed.Command))
		}
	}
}

// login authenticates a player. A missing password is read with echo off.
//
// Postcondition: ok is false when the failure was shown to the user and the
// auth loop should continue; err is set only for a broken connection.
func (h *AuthHandler) login(ctx context.Context, conn *telnet.Conn, args []string, logger *zap.Logger) (acct postgres.Account, ok bool, err error) {
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: login <username> [password]"))
		return postgres.Account{}, false, nil
	}
	username := args[0]
	var password string
	if len(args) > 1 {
		password = args[1]
	} else {
		_ = conn.WritePrompt("Password: ")
		if password, err = conn.ReadPassword(); err != nil {
			return postgres.Account{}, false, fmt.Errorf("reading password: %w", err)
		}
	}

	start := time.Now()
	acct, err = h.accounts.Authenticate(ctx, username, password)
	elapsed := time.Since(start)
	switch {
	case errors.Is(err, postgres.ErrAccountNotFound):
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Account not found. Use 'register' to create one."))
		return postgres.Account{}, false, nil
	case errors.Is(err, postgres.ErrInvalidCredentials):
		logger.Info("failed login", zap.String("username", username))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Invalid password."))
		return postgres.Account{}, false, nil
	case err != nil:
		logger.Error("authentication error", zap.Error(err), zap.Duration("elapsed", elapsed))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return postgres.Account{}, false, nil
	}

	logger.Info("player logged in",
		zap.String("username", acct.Username),
		zap.String("player_id", acct.PlayerID.String()),
		zap.Duration("elapsed", elapsed),
	)
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Welcome back, %s!", acct.Username))
	return acct, true, nil
}

func (h *AuthHandler) register(ctx context.Context, conn *telnet.Conn, args []string, logger *zap.Logger) {
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: register <username> <password>"))
		return
	}
	username, password := args[0], args[1]
	if len(username) < 3 || len(username) > 32 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Username must be 3-32 characters."))
		return
	}
	if len(password) < 6 || len(password) > 72 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Password must be 6-72 characters."))
		return
	}

	acct, err := h.accounts.Create(ctx, username, password)
	if errors.Is(err, postgres.ErrAccountExists) {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That username is already taken."))
		return
	}
	if err != nil {
		logger.Error("registration error", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	logger.Info("account created", zap.String("username", acct.Username), zap.Int64("account_id", acct.ID))
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Account created: %s. You may now 'login'.", acct.Username))
}
