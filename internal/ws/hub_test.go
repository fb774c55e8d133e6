package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vaultstamp/vaultstamp/internal/journal"
	wsHub "github.com/vaultstamp/vaultstamp/internal/ws"
)

// --- helpers ----------------------------------------------------------------

func entry(path string) journal.Entry {
	return journal.Entry{Path: path, Key: "updated", Value: "2024-03-07 12:00:00", StampedAt: time.Now()}
}

// startHub starts a test HTTP server with the hub as its handler.
// Returns the ws:// URL and the hub; cleanup is registered on t.
func startHub(t *testing.T, jrnl *journal.Journal) (string, *wsHub.Hub) {
	t.Helper()

	hub := wsHub.New(jrnl)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *wsHub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients: got %d, want %d", hub.Count(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesBacklog(t *testing.T) {
	jrnl := journal.New()
	jrnl.Record(entry("old.md"))
	wsURL, _ := startHub(t, jrnl)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	if msg.Event != "recent" {
		t.Fatalf("first event: got %q, want recent", msg.Event)
	}
	if !strings.Contains(string(mustJSON(t, msg.Data)), "old.md") {
		t.Errorf("backlog missing old.md: %v", msg.Data)
	}
}

func TestHub_Publish_ReachesAllClients(t *testing.T) {
	jrnl := journal.New()
	wsURL, hub := startHub(t, jrnl)

	c1 := dial(t, wsURL)
	c2 := dial(t, wsURL)
	waitForClients(t, hub, 2)

	// Drain the connect backlogs.
	readMessage(t, c1)
	readMessage(t, c2)

	hub.Publish(entry("note.md"))

	for _, conn := range []*websocket.Conn{c1, c2} {
		msg := readMessage(t, conn)
		if msg.Event != "stamp" {
			t.Errorf("event: got %q, want stamp", msg.Event)
		}
		if !strings.Contains(string(mustJSON(t, msg.Data)), "note.md") {
			t.Errorf("payload missing note.md: %v", msg.Data)
		}
	}
}

func TestHub_Count_TracksDisconnect(t *testing.T) {
	wsURL, hub := startHub(t, journal.New())

	conn := dial(t, wsURL)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Publish_NoClients(t *testing.T) {
	_, hub := startHub(t, journal.New())
	// Must not panic or block.
	hub.Publish(entry("note.md"))
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
