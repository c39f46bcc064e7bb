package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/supportbot/internal/analytics"
	"github.com/ziadkadry99/supportbot/internal/db"
	"github.com/ziadkadry99/supportbot/internal/faq"
	"github.com/ziadkadry99/supportbot/internal/index"
	"github.com/ziadkadry99/supportbot/internal/pipeline"
)

type testEmbedder struct{}

func (testEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(strings.ToLower(text), "cancel") {
			out[i] = []float32{1, 0, 0}
		} else {
			out[i] = []float32{0, 1, 0}
		}
	}
	return out, nil
}

func (testEmbedder) Dimensions() int { return 3 }
func (testEmbedder) Name() string    { return "stub" }

type testClassifier struct{}

func (testClassifier) PredictScores(_ context.Context, text string) (map[string]float64, error) {
	if strings.Contains(strings.ToLower(text), "cancel") {
		return map[string]float64{"billing": 0.8, "technical": 0.1, "account": 0.1, "complaints": 0.0}, nil
	}
	return map[string]float64{"billing": 0.1, "technical": 0.1, "account": 0.1, "complaints": 0.1}, nil
}

func (testClassifier) Name() string { return "stubclf" }

func newTestServer(t *testing.T, allowAll bool) (*Server, *analytics.Store) {
	t.Helper()

	corpus := []faq.Entry{
		{Question: "How do I cancel my subscription?", Answer: "Open billing settings and cancel.", Category: "billing", Intent: "billing"},
	}
	ix, err := index.Build(context.Background(), testEmbedder{}, corpus, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := analytics.NewStore(database)
	engine := pipeline.New(ix, testClassifier{}, store, nil)
	sessions := pipeline.NewSessions(5)

	return New(Config{Port: 0, AllowAll: allowAll}, engine, sessions, store, nil), store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()

	w := doJSON(t, srv, "POST", "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["session_id"] == "" {
		t.Fatal("expected a session_id")
	}
	return body["session_id"]
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, false)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, true)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, false)
	id := createSession(t, srv)

	w := doJSON(t, srv, "POST", "/api/sessions/"+id+"/messages", messageRequest{Content: "How do I cancel my subscription?"})
	if w.Code != http.StatusOK {
		t.Fatalf("message: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res pipeline.Resolution
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal resolution: %v", err)
	}
	if res.Category != pipeline.CategoryAnswered {
		t.Errorf("category: got %s, want answered", res.Category)
	}
	if res.Text != "Open billing settings and cancel." {
		t.Errorf("unexpected text: %q", res.Text)
	}

	if w := doJSON(t, srv, "DELETE", "/api/sessions/"+id, nil); w.Code != http.StatusNoContent {
		t.Fatalf("end session: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, srv, "DELETE", "/api/sessions/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("ending a gone session: expected 404, got %d", w.Code)
	}
}

func TestMessageUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t, false)

	w := doJSON(t, srv, "POST", "/api/sessions/nope/messages", messageRequest{Content: "hi there"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t, false)
	id := createSession(t, srv)

	if w := doJSON(t, srv, "POST", "/api/sessions/"+id+"/messages", messageRequest{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty content: expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/sessions/"+id+"/messages", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", w.Code)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	srv, store := newTestServer(t, false)
	id := createSession(t, srv)

	w := doJSON(t, srv, "POST", "/api/sessions/"+id+"/messages", messageRequest{Content: "How do I cancel my subscription?"})
	var res pipeline.Resolution
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal resolution: %v", err)
	}
	if res.RecordID == "" {
		t.Fatal("expected a record_id on the resolution")
	}

	if w := doJSON(t, srv, "POST", "/api/feedback", feedbackRequest{RecordID: res.RecordID, Feedback: "positive"}); w.Code != http.StatusNoContent {
		t.Fatalf("feedback: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	stats, err := store.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.SatisfactionRate != 100 {
		t.Errorf("SatisfactionRate: got %f, want 100", stats.SatisfactionRate)
	}
}

func TestFeedbackValidation(t *testing.T) {
	srv, _ := newTestServer(t, false)

	if w := doJSON(t, srv, "POST", "/api/feedback", feedbackRequest{RecordID: "x", Feedback: "meh"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid feedback value: expected 400, got %d", w.Code)
	}
	if w := doJSON(t, srv, "POST", "/api/feedback", feedbackRequest{RecordID: "missing", Feedback: "negative"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown record: expected 404, got %d", w.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, false)
	id := createSession(t, srv)

	doJSON(t, srv, "POST", "/api/sessions/"+id+"/messages", messageRequest{Content: "How do I cancel my subscription?"})
	doJSON(t, srv, "POST", "/api/sessions/"+id+"/messages", messageRequest{Content: "thanks"})

	w := doJSON(t, srv, "GET", "/api/analytics/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", w.Code)
	}
	var stats analytics.Statistics
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.TotalQueries != 2 {
		t.Errorf("TotalQueries: got %d, want 2", stats.TotalQueries)
	}

	w = doJSON(t, srv, "GET", "/api/analytics/failed?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed: expected 200, got %d", w.Code)
	}
	var failed []analytics.FailedRecord
	if err := json.Unmarshal(w.Body.Bytes(), &failed); err != nil {
		t.Fatalf("unmarshal failed list: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed record, got %d", len(failed))
	}
	if !strings.Contains(failed[0].Reason, "Irrelevant query") {
		t.Errorf("unexpected failure reason: %q", failed[0].Reason)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv, _ := newTestServer(t, false)
	id := createSession(t, srv)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Content: "How do I cancel my subscription?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" {
		t.Fatalf("type: got %q, want response", resp.Type)
	}
	if resp.SessionID != id {
		t.Errorf("session_id: got %q, want %q", resp.SessionID, id)
	}
	if resp.Resolution == nil || resp.Resolution.Category != pipeline.CategoryAnswered {
		t.Errorf("unexpected resolution: %+v", resp.Resolution)
	}

	if err := conn.WriteJSON(wsRequest{}); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read error response: %v", err)
	}
	if resp.Type != "error" || resp.Error == "" {
		t.Errorf("expected error frame, got %+v", resp)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t, false)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/nope/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake failure for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 handshake response, got %+v", resp)
	}
}
