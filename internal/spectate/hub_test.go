package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/game"

	"github.com/gorilla/websocket"
)

type fakeDirectory map[string]game.Status

func (d fakeDirectory) IDs() []string {
	var ids []string
	for id := range d {
		ids = append(ids, id)
	}
	return ids
}

func (d fakeDirectory) Status(id string) (game.Status, bool) {
	st, ok := d[id]
	return st, ok
}

type frame struct {
	Session string `json:"session"`
	Event   *struct {
		Kind   string `json:"kind"`
		Amount int    `json:"amount"`
	} `json:"event"`
	Status *game.Status `json:"status"`
}

func startHub(t *testing.T, dir Directory) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(dir, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
	return f
}

func waitViewers(t *testing.T, hub *Hub, session string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Viewers(session) != want {
		if time.Now().After(deadline) {
			t.Fatalf("viewers of %s = %d; want %d", session, hub.Viewers(session), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRegisterUnregisterClient(t *testing.T) {
	hub := NewHub(fakeDirectory{}, nil)
	c := &client{hub: hub, send: make(chan []byte, 1), session: "1"}

	hub.registerClient(c)
	if !hub.sessions["1"][c] {
		t.Fatal("client not registered")
	}
	hub.unregisterClient(c)
	if _, ok := hub.sessions["1"]; ok {
		t.Fatal("empty session should be removed")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed")
	}
	// A second unregister must not close the channel again.
	hub.unregisterClient(c)
}

func TestBroadcastDropsSlowViewer(t *testing.T) {
	hub := NewHub(fakeDirectory{}, nil)
	slow := &client{hub: hub, send: make(chan []byte), session: "1"}
	fast := &client{hub: hub, send: make(chan []byte, 1), session: "1"}
	hub.registerClient(slow)
	hub.registerClient(fast)

	hub.broadcastMessage(Message{Session: "1", Event: &event.Event{Kind: event.Moved}})
	if hub.sessions["1"][slow] {
		t.Fatal("slow viewer should be dropped")
	}
	if !hub.sessions["1"][fast] || len(fast.send) != 1 {
		t.Fatal("fast viewer should get the message")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(fakeDirectory{}, nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Publish("1", event.Event{Kind: event.Moved}, game.Status{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestServeWSRejects(t *testing.T) {
	hub := NewHub(fakeDirectory{"1": {}}, nil)
	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"missing session", "/ws", http.StatusBadRequest},
		{"unknown session", "/ws?session=9", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			hub.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			if rec.Code != tc.want {
				t.Fatalf("status = %d; want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSessionsList(t *testing.T) {
	hub := NewHub(fakeDirectory{"7": {}}, nil)
	rec := httptest.NewRecorder()
	hub.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Sessions []string `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Sessions) != 1 || body.Sessions[0] != "7" {
		t.Fatalf("sessions = %v", body.Sessions)
	}

	empty := NewHub(fakeDirectory{}, nil)
	rec = httptest.NewRecorder()
	empty.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if got := strings.TrimSpace(rec.Body.String()); got != `{"sessions":[]}` {
		t.Fatalf("empty body = %s", got)
	}
}

func TestViewerReceivesSnapshotThenEvents(t *testing.T) {
	dir := fakeDirectory{"1": {Map: "map1", Turn: "player"}, "2": {Map: "map2"}}
	hub, srv := startHub(t, dir)

	conn := dial(t, srv, "1")
	first := readFrame(t, conn)
	if first.Session != "1" || first.Event != nil || first.Status == nil || first.Status.Map != "map1" {
		t.Fatalf("first frame = %+v", first)
	}
	waitViewers(t, hub, "1", 1)

	hub.Publish("2", event.Event{Kind: event.Moved}, game.Status{Map: "map2"})
	hub.Publish("1", event.Event{Kind: event.Attack, Amount: 10}, game.Status{Map: "map1", Turn: "player"})

	got := readFrame(t, conn)
	if got.Session != "1" || got.Event == nil || got.Event.Kind != "attack" || got.Event.Amount != 10 {
		t.Fatalf("event frame = %+v", got)
	}
	if got.Status == nil || got.Status.Turn != "player" {
		t.Fatalf("event frame status = %+v", got.Status)
	}
}

func TestViewerDisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t, fakeDirectory{"1": {}})
	conn := dial(t, srv, "1")
	readFrame(t, conn)
	waitViewers(t, hub, "1", 1)

	conn.Close()
	waitViewers(t, hub, "1", 0)
}
