package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubPublishesPredictions(t *testing.T) {
	hub := NewHub(nil, nil)
	go hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.PublishPrediction(PredictionEvent{Model: "LogisticRegression", Outcome: OutcomeOK, Prediction: "Positive"})
	hub.PublishPrediction(PredictionEvent{Model: "SVM", Outcome: OutcomeUnavailable, Error: "SVM model or encoder is not available"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	wantTypes := []MessageType{PredictionMade, PredictionFailed}
	for _, want := range wantTypes {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != want || msg.ID == "" {
			t.Fatalf("unexpected message %+v", msg)
		}
		var event PredictionEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Fatalf("invalid event: %v", err)
		}
		if event.Model == "" {
			t.Fatalf("event lost its model: %+v", event)
		}
	}
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub(nil, nil)
	go hub.Start()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hub.Stop()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close")
	}
}

func TestHubRejectsDisallowedOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"http://localhost:8501"})
	go hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected a foreign origin to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}

	header = http.Header{"Origin": []string{"http://localhost:8501"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("configured origin refused: %v", err)
	}
	conn.Close()
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin", []string{"http://a.example"}, "", true},
		{"wildcard", []string{"*"}, "http://evil.example", true},
		{"listed", []string{"http://a.example"}, "http://a.example", true},
		{"same host", nil, "http://example.com", true},
		{"foreign", []string{"http://a.example"}, "http://b.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com/ws/predictions", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(req); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
