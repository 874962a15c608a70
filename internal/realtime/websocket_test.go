package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const testSecret = "ws-test-secret"

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestServer(t *testing.T) (*httptest.Server, *Registry) {
	t.Helper()
	registry := NewRegistry()
	handler := NewHandler(registry, testSecret, zerolog.Nop())
	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)
	return server, registry
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	server, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	if err == nil {
		t.Fatal("expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestServeWSRegistersAndGreets(t *testing.T) {
	server, registry := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, signToken(t, "user-1")), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("failed to read welcome frame: %v", err)
	}
	if welcome.Event != "welcome" {
		t.Fatalf("expected welcome frame, got %q", welcome.Event)
	}

	waitFor(t, 2*time.Second, func() bool { return registry.IsOnline("user-1") })
}

func TestServeWSPushReachesClient(t *testing.T) {
	server, registry := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, signToken(t, "user-1")), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitFor(t, 2*time.Second, func() bool { return registry.IsOnline("user-1") })

	session := registry.Lookup("user-1")
	if session == nil {
		t.Fatal("expected a registered session")
	}
	if err := session.Push("notification", map[string]string{"id": "abc", "title": "hi"}); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var got struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("failed to read pushed frame: %v", err)
		}
		if got.Event == "welcome" {
			continue
		}
		if got.Event != "notification" || got.Data["id"] != "abc" {
			t.Fatalf("unexpected frame: %+v", got)
		}
		return
	}
}

func TestServeWSReconnectSurvivesStaleDisconnect(t *testing.T) {
	server, registry := newTestServer(t)
	token := signToken(t, "user-1")

	first, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return registry.IsOnline("user-1") })
	firstSession := registry.Lookup("user-1")

	second, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	defer second.Close()
	waitFor(t, 2*time.Second, func() bool { return registry.Lookup("user-1") != firstSession })

	// The stale socket finally dropping must not knock the new session
	// offline.
	first.Close()
	time.Sleep(100 * time.Millisecond)
	if !registry.IsOnline("user-1") {
		t.Fatal("expected replacement session to stay registered after stale disconnect")
	}
}

func TestServeWSUnregistersOnDisconnect(t *testing.T) {
	server, registry := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, signToken(t, "user-1")), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return registry.IsOnline("user-1") })

	conn.Close()

	waitFor(t, 2*time.Second, func() bool { return !registry.IsOnline("user-1") })
}
