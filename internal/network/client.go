package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ricochet/internal/core"
	"github.com/vovakirdan/ricochet/internal/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client command types.
const (
	CmdPlace    = "place"
	CmdRemove   = "remove"
	CmdWall     = "wall"
	CmdTimeStop = "timestop"
	CmdLeave    = "leave"
	CmdSnapshot = "snapshot"
)

// TypeError reports a malformed client frame.
const TypeError = "error"

// ErrUnknownCommand is returned for an unrecognised command type.
var ErrUnknownCommand = errors.New("network: unknown command")

// ErrSpectator is returned when a spectator sends a game command.
var ErrSpectator = errors.New("network: spectators cannot act")

// envelope is an inbound frame.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// cellPayload addresses a board cell, with an orientation for placements.
type cellPayload struct {
	X           int              `json:"x"`
	Y           int              `json:"y"`
	Orientation core.Orientation `json:"orientation"`
}

type client struct {
	conn    *websocket.Conn
	room    *room.Room
	session *room.ChannelSession
	seat    int
	log     *log.Logger
}

// readPump turns inbound frames into room commands until the connection
// fails.
func (c *client) readPump() {
	defer func() {
		c.room.Leave(c.session.ID())
		c.session.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // Checked by the next read
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.fail(err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket closed", "error", err)
			}
			return
		}

		if env.Type == CmdSnapshot {
			//nolint:errcheck // Room closing ends the session
			c.room.RequestSnapshot(c.session.ID())
			continue
		}

		cmd, err := decodeCommand(core.PlayerID(c.seat), env)
		if err != nil {
			c.fail(err)
			continue
		}
		if err := c.room.Submit(cmd); err != nil {
			if errors.Is(err, room.ErrClosed) {
				return
			}
			c.fail(err)
		}
	}
}

// writePump forwards session messages to the socket and keeps it alive
// with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.session.Messages():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Checked by the write
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Checked by the write
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.room.Done():
			c.flush()
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over")
			c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)) //nolint:errcheck // Closing anyway
			return
		case <-c.session.Done():
			return
		}
	}
}

// flush writes whatever the session still holds.
func (c *client) flush() {
	for {
		select {
		case msg := <-c.session.Messages():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Checked by the write
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// fail reports a bad frame to this client only.
func (c *client) fail(err error) {
	c.log.Debug("bad client frame", "error", err)
	c.session.Send(room.Message{Type: TypeError, Payload: err.Error()})
}

// decodeCommand builds the room command for env on behalf of seat.
func decodeCommand(seat core.PlayerID, env envelope) (room.Command, error) {
	if seat == 0 {
		return nil, ErrSpectator
	}

	var cell cellPayload
	switch env.Type {
	case CmdPlace, CmdRemove, CmdWall:
		if len(env.Payload) == 0 {
			return nil, fmt.Errorf("network: %s needs a payload", env.Type)
		}
		if err := json.Unmarshal(env.Payload, &cell); err != nil {
			return nil, fmt.Errorf("network: bad %s payload: %w", env.Type, err)
		}
	}

	switch env.Type {
	case CmdPlace:
		if !cell.Orientation.Valid() {
			return nil, errors.New("network: place needs an orientation")
		}
		return room.PlaceReflector{Player: seat, X: cell.X, Y: cell.Y, Orientation: cell.Orientation}, nil
	case CmdRemove:
		return room.RemoveReflector{Player: seat, X: cell.X, Y: cell.Y}, nil
	case CmdWall:
		return room.PlaceWall{Player: seat, X: cell.X, Y: cell.Y}, nil
	case CmdTimeStop:
		return room.UseTimeStop{Player: seat}, nil
	case CmdLeave:
		return room.Leave{Player: seat}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
}
