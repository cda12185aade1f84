package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/providers/nlp"
	"github.com/conversify/conversify/internal/providers/templates"
	"github.com/conversify/conversify/internal/service/cache"
	"github.com/conversify/conversify/internal/service/command"
	"github.com/conversify/conversify/internal/service/engine"
	"github.com/conversify/conversify/internal/service/responder"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := templates.Load(context.Background(), t.TempDir()+"/absent.yaml")
	if err != nil {
		t.Fatal(err)
	}
	gen, err := responder.New(store, cache.New(16))
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.AppConfig{Mode: "casual", MaxHistorySize: 50, CacheSize: 16}
	eng := engine.New(cfg, nlp.NewLexicon(), gen, nil)
	router := command.New(command.NewCommands(cfg, eng))

	return NewServer(&config.ServerConfig{ListenAddr: ":0", AllowedOrigin: "*"}, eng, router)
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRoundTrip(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(inbound{Text: "hello there"}); err != nil {
		t.Fatal(err)
	}
	var out outbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out.Reply == "" {
		t.Error("expected a non-empty reply")
	}
	if out.State != "initial" {
		t.Errorf("state = %q, want initial", out.State)
	}
}

func TestCommandsRouted(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(inbound{Text: "/help"}); err != nil {
		t.Fatal(err)
	}
	var out outbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Reply, "/topics") {
		t.Errorf("expected /help output to list commands, got %q", out.Reply)
	}
}

func TestStateAdvancesAcrossFrames(t *testing.T) {
	conn := dial(t, newTestServer(t))

	var out outbound
	for _, text := range []string{"hello there", "how does this work"} {
		if err := conn.WriteJSON(inbound{Text: text}); err != nil {
			t.Fatal(err)
		}
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatal(err)
		}
	}
	if out.State != "engaged" {
		t.Errorf("state after question = %q, want engaged", out.State)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
