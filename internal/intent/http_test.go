package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClassifierPredictScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scores" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "my bill is wrong" {
			t.Errorf("unexpected text %q", req.Text)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"scores": map[string]float64{"billing": 0.9, "technical": 0.1},
		})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	scores, err := c.PredictScores(context.Background(), "my bill is wrong")
	if err != nil {
		t.Fatalf("PredictScores: %v", err)
	}
	if scores["billing"] != 0.9 {
		t.Errorf("billing score: got %f, want 0.9", scores["billing"])
	}
}

func TestHTTPClassifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	if _, err := c.PredictScores(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestHTTPClassifierEmptyScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"scores": map[string]float64{}})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	if _, err := c.PredictScores(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty scores")
	}
}
