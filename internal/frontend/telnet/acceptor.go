package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/config"
)

// SessionHandler runs the command loop for one connected client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for Telnet connections and runs each one through a
// SessionHandler on its own goroutine.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	running  bool
	conns    map[*Conn]struct{}
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[*Conn]struct{}),
	}
}

// ListenAndServe accepts connections until Stop is called.
//
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	start := time.Now()

	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		listener.Close()
		return nil
	}
	a.listener = listener
	a.running = true
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	for {
		raw, err := listener.Accept()
		if err != nil {
			if a.ctx.Err() != nil {
				return nil
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.wg.Add(1)
		go a.serve(raw)
	}
}

func (a *Acceptor) serve(raw net.Conn) {
	defer a.wg.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	a.logger.Info("client connected", zap.String("remote_addr", addr))

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	a.track(conn, true)
	defer func() {
		a.track(conn, false)
		conn.Close()
	}()

	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	if err := a.handler.HandleSession(ctx, conn); err != nil {
		a.logger.Debug("session ended",
			zap.String("remote_addr", addr),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	a.logger.Info("session ended cleanly",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

func (a *Acceptor) track(c *Conn, add bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if add {
		a.conns[c] = struct{}{}
	} else {
		delete(a.conns, c)
	}
}

// Stop closes the listener and every open session, then waits for the
// session goroutines to exit. It is safe to call more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	wasRunning := a.running
	a.running = false
	a.cancel()
	if a.listener != nil {
		a.listener.Close()
	}
	for c := range a.conns {
		c.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	if wasRunning {
		a.logger.Info("telnet acceptor stopped")
	}
}

// Addr returns the listening address, or "" before ListenAndServe binds.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning reports whether the acceptor is accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Sessions returns the number of connected clients.
func (a *Acceptor) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}
