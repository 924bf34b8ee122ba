package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"predsim/internal/protocol"
)

// Server streams status snapshots of a running simulation to any number of
// websocket watchers. It is read-only: watchers never influence the run.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[chan []byte]struct{}
	last []byte
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local tooling
		},
		subs: make(map[chan []byte]struct{}),
	}
}

// Publish fans the snapshot out to every watcher. Slow watchers miss
// updates rather than stalling the simulation loop.
func (s *Server) Publish(msg protocol.StatusMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.last = b
	for ch := range s.subs {
		select {
		case ch <- b:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ch := s.subscribe()
		defer s.unsubscribe(ch)

		done := make(chan struct{})

		// Writer goroutine.
		go func() {
			defer close(done)
			for b := range ch {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}()

		// Reader loop only detects the peer going away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.unsubscribe(ch)
		<-done
	}
}

func (s *Server) subscribe() chan []byte {
	ch := make(chan []byte, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.last != nil {
		ch <- s.last
	}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}
