package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/rocketscienceinc/tris-server/internal/entity"
	"github.com/rocketscienceinc/tris-server/internal/session"
)

var ErrNotListening = errors.New("lobby is not listening")

// Lobby binds the player ports and seats exactly two connections, player A first.
type Lobby struct {
	logger *slog.Logger
	addrs  [2]string

	listeners [2]net.Listener
}

// NewLobby - equal non-ephemeral addresses mean both players join through one listener.
func NewLobby(logger *slog.Logger, addrA, addrB string) *Lobby {
	return &Lobby{
		logger: logger.With("component", "lobby"),
		addrs:  [2]string{addrA, addrB},
	}
}

// shared - port 0 always asks for a fresh ephemeral port, so it is never shared.
func (that *Lobby) shared() bool {
	if that.addrs[0] != that.addrs[1] {
		return false
	}

	_, port, err := net.SplitHostPort(that.addrs[0])

	return err == nil && port != "0"
}

// Listen - binds the player ports.
func (that *Lobby) Listen(ctx context.Context) error {
	var lc net.ListenConfig

	for i, addr := range that.addrs {
		if i == 1 && that.shared() {
			that.listeners[1] = that.listeners[0]
			break
		}

		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			that.Close()
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		that.listeners[i] = ln
	}

	return nil
}

// Addr - the bound address for the player's seat.
func (that *Lobby) Addr(player entity.Player) net.Addr {
	if ln := that.listeners[player.Index()]; ln != nil {
		return ln.Addr()
	}
	return nil
}

// Accept - waits for player A, then player B. Listeners are closed once both are seated.
func (that *Lobby) Accept(ctx context.Context) (*session.Session, *session.Session, error) {
	log := that.logger.With("method", "Accept")

	if that.listeners[0] == nil || that.listeners[1] == nil {
		return nil, nil, ErrNotListening
	}

	defer that.Close()

	var seats [2]*session.Session
	for _, player := range []entity.Player{entity.PlayerA, entity.PlayerB} {
		ln := that.listeners[player.Index()]

		log.Info("waiting for player", "player", player.String(), "addr", ln.Addr().String())

		conn, err := acceptOne(ctx, ln)
		if err != nil {
			for _, seat := range seats {
				if seat != nil {
					_ = seat.Close()
				}
			}
			return nil, nil, fmt.Errorf("failed to accept player %s: %w", player, err)
		}

		seats[player.Index()] = session.New(player, conn)
		log.Info("player connected", "player", player.String(), "remote", conn.RemoteAddr().String())

		if !that.shared() {
			_ = ln.Close()
		}
	}

	return seats[0], seats[1], nil
}

func (that *Lobby) Close() {
	for i, ln := range that.listeners {
		if ln == nil || (i == 1 && that.shared()) {
			continue
		}

		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			that.logger.Error("failed to close listener", "error", err)
		}
	}
}

type accepted struct {
	conn net.Conn
	err  error
}

// acceptOne - Accept that gives up when ctx is done. The listener is closed in that case.
func acceptOne(ctx context.Context, ln net.Listener) (net.Conn, error) {
	ch := make(chan accepted, 1)

	go func() {
		conn, err := ln.Accept()
		ch <- accepted{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = ln.Close()
		if res := <-ch; res.conn != nil {
			_ = res.conn.Close()
		}
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}
