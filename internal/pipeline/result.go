package pipeline

import (
	"time"

	"github.com/ziadkadry99/supportbot/internal/entities"
)

// Category is the final response classification for a turn.
type Category string

const (
	// CategoryAnswered means a retrieved FAQ answer was returned.
	CategoryAnswered Category = "answered"
	// CategoryClarify means a clarifying question was asked instead.
	CategoryClarify Category = "clarify"
	// CategoryFallback means a topic-specific fallback was returned.
	CategoryFallback Category = "fallback"
	// CategoryOffTopic means the query was rejected as unrelated.
	CategoryOffTopic Category = "off_topic"
)

// Resolution is the complete outcome of one turn through the pipeline.
// It is created fresh per turn and never mutated after emission;
// analytics logging consumes a copy.
type Resolution struct {
	RecordID          string        `json:"record_id,omitempty"`
	Query             string        `json:"query"`
	EnhancedQuery     string        `json:"enhanced_query,omitempty"`
	FollowUp          bool          `json:"is_follow_up"`
	Intents           []string      `json:"intents"`
	OverallConfidence float64       `json:"overall_confidence"`
	Similarity        float64       `json:"similarity"`
	Entities          entities.Set  `json:"entities"`
	EntitySummary     string        `json:"entity_summary,omitempty"`
	Category          Category      `json:"response_category"`
	Text              string        `json:"response_text"`
	ResponseTime      time.Duration `json:"response_time"`
	Failed            bool          `json:"failed"`
	FailReason        string        `json:"fail_reason,omitempty"`
}
