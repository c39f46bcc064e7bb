package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// embeddingsStub serves the OpenAI embeddings endpoint, capturing each
// request body and answering with width-dim vectors.
func embeddingsStub(t *testing.T, width int, requests *[]map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		*requests = append(*requests, req)

		inputs, _ := req["input"].([]any)
		resp := map[string]any{"object": "list", "model": req["model"]}
		data := make([]map[string]any, len(inputs))
		for i := range inputs {
			vec := make([]float32, width)
			vec[0] = 1
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}
		resp["data"] = data

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func stubClient(baseURL string) *openai.Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestOpenAIEmbedderRequestsReducedDimensions(t *testing.T) {
	var requests []map[string]any
	ts := embeddingsStub(t, 256, &requests)
	defer ts.Close()

	e := newOpenAIEmbedder(stubClient(ts.URL), ModelTextEmbedding3Small, 256)

	if e.Dimensions() != 256 {
		t.Fatalf("Dimensions: got %d, want 256", e.Dimensions())
	}
	if e.Name() != "text-embedding-3-small@256" {
		t.Errorf("Name: got %q", e.Name())
	}

	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 256 {
		t.Fatalf("got %d vectors of width %d", len(vecs), len(vecs[0]))
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 API call, got %d", len(requests))
	}
	if dims, ok := requests[0]["dimensions"].(float64); !ok || dims != 256 {
		t.Errorf("request dimensions: got %v, want 256", requests[0]["dimensions"])
	}
}

func TestOpenAIEmbedderNativeWidthByDefault(t *testing.T) {
	var requests []map[string]any
	ts := embeddingsStub(t, 1536, &requests)
	defer ts.Close()

	e := newOpenAIEmbedder(stubClient(ts.URL), ModelTextEmbedding3Small, 0)

	if e.Dimensions() != 1536 {
		t.Fatalf("Dimensions: got %d, want 1536", e.Dimensions())
	}
	if e.Name() != "text-embedding-3-small" {
		t.Errorf("Name: got %q", e.Name())
	}

	if _, err := e.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, present := requests[0]["dimensions"]; present {
		t.Error("native-width request should not carry a dimensions field")
	}
}

func TestOpenAIEmbedderRejectsWidthMismatch(t *testing.T) {
	var requests []map[string]any
	// Server answers with the model's native width despite the reduction.
	ts := embeddingsStub(t, 1536, &requests)
	defer ts.Close()

	e := newOpenAIEmbedder(stubClient(ts.URL), ModelTextEmbedding3Small, 256)

	if _, err := e.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected an error for a wrong-width embedding")
	}
}
