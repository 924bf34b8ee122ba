package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"predsim/internal/protocol"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn) protocol.StatusMsg {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg protocol.StatusMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", b, err)
	}
	return msg
}

func TestServer_PublishReachesWatcher(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	want := protocol.StatusMsg{PredatorCount: 12, PreyCount: 340, CurrentStep: 57, IsRunning: true}

	// The subscription races the dial; publish until the watcher is wired up.
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.Publish(want)
		_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if _, b, err := conn.ReadMessage(); err == nil {
			var got protocol.StatusMsg
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal %q: %v", b, err)
			}
			if got != want {
				t.Fatalf("want %+v, got %+v", want, got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("snapshot never reached the watcher")
		}
	}
}

func TestServer_LateWatcherGetsLastSnapshot(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	want := protocol.StatusMsg{PredatorCount: 3, PreyCount: 75, CurrentStep: 200}
	s.Publish(want)

	conn := dial(t, srv)
	defer conn.Close()

	if got := readStatus(t, conn); got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestServer_PublishWithNoWatchersDoesNotBlock(t *testing.T) {
	s := NewServer(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Publish(protocol.StatusMsg{CurrentStep: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("publish blocked without watchers")
	}
}
