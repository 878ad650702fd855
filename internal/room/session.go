package room

import (
	"sync"

	"github.com/vovakirdan/ricochet/internal/match"
)

// Message types sent to sessions besides match event kinds.
const (
	TypeWelcome  = "welcome"
	TypeSnapshot = "snapshot"
	TypeRejected = "rejected"
)

// Message is one item delivered to a session: a match event, a snapshot or
// a room notice.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// EventMessage wraps a match event.
func EventMessage(e match.Event) Message {
	return Message{Type: e.Kind(), Payload: e}
}

// Welcome tells a session which seat it holds. Seat 0 is a spectator.
type Welcome struct {
	Room   ID     `json:"room"`
	Layout string `json:"layout"`
	Seat   int    `json:"seat"`
}

// Session is the transport-neutral handle a room talks to.
type Session interface {
	// ID returns the unique session identifier.
	ID() string

	// Send delivers a message. It must not block.
	Send(msg Message)

	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a Session backed by a buffered channel. When the buffer
// is full the oldest message is dropped.
type ChannelSession struct {
	id       string
	messages chan Message
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session with room for size buffered messages.
func NewChannelSession(id string, size int) *ChannelSession {
	if size < 1 {
		size = 256
	}
	return &ChannelSession{
		id:       id,
		messages: make(chan Message, size),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() string {
	return s.id
}

// Send queues msg, dropping the oldest queued message if the buffer is full.
func (s *ChannelSession) Send(msg Message) {
	select {
	case <-s.done:
		return
	default:
	}

	for {
		select {
		case s.messages <- msg:
			return
		default:
		}
		select {
		case <-s.messages:
		default:
		}
	}
}

// Messages returns the receive side of the buffer.
func (s *ChannelSession) Messages() <-chan Message {
	return s.messages
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
