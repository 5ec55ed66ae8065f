package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
	"github.com/rocketscienceinc/tris-server/internal/protocol"
)

// Session is a synchronous line channel to one player.
type Session struct {
	player entity.Player
	conn   io.ReadWriteCloser
	reader *bufio.Reader

	closeOnce sync.Once
	closeErr  error
}

func New(player entity.Player, conn io.ReadWriteCloser) *Session {
	return &Session{
		player: player,
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (that *Session) Player() entity.Player {
	return that.player
}

// SendLine - writes the text followed by a newline.
func (that *Session) SendLine(text string) error {
	if _, err := io.WriteString(that.conn, text+"\n"); err != nil {
		return fmt.Errorf("%w: player %s write: %w", apperror.ErrStreamFailure, that.player, err)
	}

	return nil
}

// Send - encodes and writes a protocol message.
func (that *Session) Send(msg protocol.Message) error {
	return that.SendLine(msg.Encode())
}

// ReceiveLine - blocks until a full line arrives or the peer goes away.
func (that *Session) ReceiveLine() (string, error) {
	line, err := that.reader.ReadString('\n')
	if err != nil {
		// a last unterminated line before EOF still counts
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}

		return "", fmt.Errorf("%w: player %s read: %w", apperror.ErrStreamFailure, that.player, err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Close - safe to call more than once.
func (that *Session) Close() error {
	that.closeOnce.Do(func() {
		that.closeErr = that.conn.Close()
	})

	return that.closeErr
}
