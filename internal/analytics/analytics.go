// Package analytics records per-turn quality metrics and aggregates them
// for the operator dashboard. Logging consumes an immutable copy of each
// turn's resolution; nothing here feeds back into the response path.
package analytics

import "time"

// Record is one logged query turn.
type Record struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	SessionID    string        `json:"session_id,omitempty"`
	Query        string        `json:"query"`
	Intents      []string      `json:"intents"`
	Confidence   float64       `json:"confidence"`
	Similarity   float64       `json:"similarity"`
	ResponseTime time.Duration `json:"response_time"`
	Category     string        `json:"response_category"`
	Feedback     string        `json:"feedback,omitempty"`
}

// FailedRecord is a logged low-quality turn with the reasons it failed.
type FailedRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id,omitempty"`
	Query      string    `json:"query"`
	Intents    []string  `json:"intents"`
	Confidence float64   `json:"confidence"`
	Similarity float64   `json:"similarity"`
	Reason     string    `json:"reason"`
}

// Statistics aggregates the query log.
type Statistics struct {
	TotalQueries       int            `json:"total_queries"`
	AvgConfidence      float64        `json:"avg_confidence"`
	AvgSimilarity      float64        `json:"avg_similarity"`
	AvgResponseTime    time.Duration  `json:"avg_response_time"`
	SatisfactionRate   float64        `json:"satisfaction_rate"`
	IntentDistribution map[string]int `json:"intent_distribution"`
	FailedQueries      int            `json:"failed_queries_count"`
}

// Feedback values.
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)
