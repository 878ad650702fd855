// Package network serves running rooms over HTTP and websockets.
//
// GET  /rooms            lists running rooms
// POST /rooms            creates a room (?layout=duel&humans=1)
// GET  /rooms/{id}/ws    joins a room; ?watch=1 joins as a spectator
//
// Every websocket frame is a JSON envelope {"type": ..., "payload": ...}.
// The server sends match events, snapshots and room notices; clients send
// the commands listed in client.go.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ricochet/internal/room"
)

const defaultLayout = "duel"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes a room manager to websocket clients.
type Server struct {
	ctx     context.Context
	manager *room.Manager
	log     *log.Logger
}

// NewServer creates a server. Rooms created over HTTP live until ctx is
// cancelled or their match ends.
func NewServer(ctx context.Context, manager *room.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{ctx: ctx, manager: manager, log: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rooms", s.handleList)
	mux.HandleFunc("POST /rooms", s.handleCreate)
	mux.HandleFunc("GET /rooms/{id}/ws", s.handleSocket)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck // Nothing to do if the client is gone
	})
	return mux
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	opts := room.CreateOptions{Layout: r.URL.Query().Get("layout"), Humans: 1}
	if opts.Layout == "" {
		opts.Layout = defaultLayout
	}
	if v := r.URL.Query().Get("humans"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "humans must be a non-negative integer", http.StatusBadRequest)
			return
		}
		opts.Humans = n
	}

	rm, err := s.manager.Create(s.ctx, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Info("room created", "room", rm.ID(), "layout", opts.Layout, "humans", opts.Humans)
	writeJSON(w, http.StatusCreated, rm.Info())
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.manager.Get(room.ID(r.PathValue("id")))
	if !ok {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := room.NewChannelSession(uuid.NewString(), 0)
	seat, err := s.join(rm, session, r.URL.Query().Get("watch") != "")
	if err != nil {
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		conn.WriteMessage(websocket.CloseMessage, msg) //nolint:errcheck // Closing anyway
		conn.Close()
		return
	}

	c := &client{
		conn:    conn,
		room:    rm,
		session: session,
		seat:    seat,
		log:     s.log.With("room", rm.ID(), "session", session.ID()),
	}
	//nolint:errcheck // A closed room ends the write pump on its own
	rm.RequestSnapshot(session.ID())

	go c.writePump()
	c.readPump()
}

// join seats the session, or adds it as a spectator when no seat is free
// or watch is set.
func (s *Server) join(rm *room.Room, session *room.ChannelSession, watch bool) (int, error) {
	if !watch {
		seat, err := rm.Join(session)
		if err == nil {
			return int(seat), nil
		}
		if !errors.Is(err, room.ErrNoSeat) {
			return 0, err
		}
	}
	return 0, rm.Watch(session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Nothing to do if the client is gone
	json.NewEncoder(w).Encode(v)
}
