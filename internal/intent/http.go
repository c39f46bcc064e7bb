package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClassifier calls an external intent-scoring service. The service
// accepts {"text": ...} and returns {"scores": {label: probability}}.
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClassifier creates a classifier client for the given service
// base URL.
func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (c *HTTPClassifier) Name() string {
	return "http/" + c.baseURL
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Scores map[string]float64 `json:"scores"`
}

func (c *HTTPClassifier) PredictScores(ctx context.Context, text string) (map[string]float64, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scores", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(result.Scores) == 0 {
		return nil, fmt.Errorf("classifier returned no scores")
	}

	return result.Scores, nil
}
