// Package activity serves a small HTTP+WebSocket feed of mount
// mutation events: every successful write, unlink, rmdir, mknod,
// mkdir, rename, truncate, utimens, and persist is published as an
// event that connected clients can observe live.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Event is one filesystem mutation, published to every connected feed
// client.
type Event struct {
	Op   string    `json:"op"`
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

// StatusProvider reports the mount's current dirty bit and identity,
// satisfied by *fsmount.State without this package importing it —
// activity knows nothing about the shadow tree, only the same summary
// the .status control file exposes.
type StatusProvider interface {
	Status() (isSaved bool, sourcePath string, mountTime time.Time)
}

// Server broadcasts mutation events over WebSocket and answers a
// plain status query, both served on a single h2c-wrapped
// *http.Server so either route works over plain HTTP/2 or HTTP/1.1.
type Server struct {
	status StatusProvider

	mu       sync.Mutex
	clients  map[*websocket.Conn]chan Event
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
}

// New builds a Server listening on addr (host:port; port 0 picks a
// free port). Call Addr() after Start to learn the bound address.
func New(addr string, status StatusProvider) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		status:   status,
		clients:  make(map[*websocket.Conn]chan Event),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		listener: lis,
	}

	router := mux.NewRouter()
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Start serves until the listener is closed by Shutdown. It's meant to
// run in its own goroutine, returning once the server stops.
func (s *Server) Start() error {
	id := uuid.NewString()
	log.Printf("jsonfs: activity feed %s listening on %s", id, s.Addr())
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and disconnects every feed client.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.mu.Lock()
	for conn, ch := range s.clients {
		delete(s.clients, conn)
		close(ch)
	}
	s.mu.Unlock()
	return err
}

// Publish is wired to fsmount.State.Notify; it fans an event out to
// every connected /feed client without blocking the caller — a full
// client channel just drops the event, since this is pure
// observability, not a durability guarantee.
func (s *Server) Publish(op, path string) {
	event := Event{Op: op, Path: path, At: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	isSaved, sourcePath, mountTime := s.status.Status()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"is_saved":    isSaved,
		"source_path": sourcePath,
		"mount_time":  mountTime,
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("jsonfs: activity feed upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan Event, 32)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for event := range ch {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
