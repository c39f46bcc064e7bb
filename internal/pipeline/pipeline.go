// Package pipeline fuses intent confidence, retrieval similarity, and
// conversational signals into the final response for a turn.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/supportbot/internal/analytics"
	"github.com/ziadkadry99/supportbot/internal/conversation"
	"github.com/ziadkadry99/supportbot/internal/entities"
	"github.com/ziadkadry99/supportbot/internal/index"
	"github.com/ziadkadry99/supportbot/internal/intent"
)

// Response decision thresholds. These are empirically chosen constants
// with order-dependent semantics; the ladder in Respond evaluates them
// in a fixed order and the first match wins. Do not reorder or merge.
const (
	clarifySimilarity = 0.70
	clarifyConfidence = 0.35
	answerSimilarity  = 0.65
)

// Failed-turn thresholds. Intentionally different from the response
// ladder's; a turn can be answered and still counted as failed.
const (
	failConfidence = 0.35
	failSimilarity = 0.60
)

// apologyMessage is returned when an external collaborator fails
// mid-turn. The turn degrades; session context is left untouched.
const apologyMessage = "I'm sorry, something went wrong while processing your question. Please try again."

// Engine runs the query resolution pipeline. The index is read-only and
// shared; per-session state lives in each session's tracker.
type Engine struct {
	index      *index.Index
	classifier intent.Classifier
	store      *analytics.Store
	log        *zap.Logger
}

// New creates a pipeline engine. store may be nil to disable analytics.
func New(ix *index.Index, classifier intent.Classifier, store *analytics.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		index:      ix,
		classifier: classifier,
		store:      store,
		log:        log,
	}
}

// Index returns the engine's semantic index.
func (e *Engine) Index() *index.Index { return e.index }

// Respond resolves one user turn against the session's tracker: it
// classifies the raw utterance, rewrites follow-ups, retrieves from the
// index, applies the response decision ladder, records analytics, and
// appends both turns to the conversation log.
func (e *Engine) Respond(ctx context.Context, sessionID string, tracker *conversation.Tracker, query string) Resolution {
	start := time.Now()

	followUp := tracker.IsFollowUp(query)
	// Retrieval sees the rewritten query; classification, entity
	// extraction, and the irrelevance heuristics see the raw one.
	enhanced := tracker.EnhanceWithContext(query)

	scores, err := e.classifier.PredictScores(ctx, query)
	if err != nil {
		e.log.Warn("intent classification failed", zap.String("session", sessionID), zap.Error(err))
		return e.degraded(query, start)
	}
	resolved := intent.Resolve(scores, intent.DefaultThreshold)

	ents := entities.Extract(query)

	answer, err := e.index.Contextual(ctx, enhanced, resolved.Intents, ents)
	if err != nil {
		e.log.Warn("retrieval failed", zap.String("session", sessionID), zap.Error(err))
		return e.degraded(query, start)
	}
	similarity := answer.Similarity

	category, text := decide(query, resolved, similarity, answer)

	res := Resolution{
		Query:             query,
		EnhancedQuery:     enhanced,
		FollowUp:          followUp,
		Intents:           resolved.Intents,
		OverallConfidence: resolved.OverallConfidence,
		Similarity:        similarity,
		Entities:          ents,
		EntitySummary:     ents.Summary(),
		Category:          category,
		Text:              text,
		ResponseTime:      time.Since(start),
	}
	res.Failed, res.FailReason = failure(res)

	e.record(ctx, sessionID, &res)

	tracker.AddTurn(conversation.RoleUser, query, conversation.TurnMetadata{
		Intents:  resolved.Intents,
		Entities: ents,
	})
	tracker.AddTurn(conversation.RoleAssistant, text, conversation.TurnMetadata{})

	e.log.Info("turn resolved",
		zap.String("session", sessionID),
		zap.String("category", string(category)),
		zap.Float64("confidence", resolved.OverallConfidence),
		zap.Float64("similarity", similarity),
		zap.Bool("follow_up", followUp),
		zap.Duration("took", res.ResponseTime),
	)

	return res
}

// RespondIn resolves one turn within a session, serializing with any
// other turn in the same session.
func (e *Engine) RespondIn(ctx context.Context, s *Session, query string) Resolution {
	var res Resolution
	s.Do(func(t *conversation.Tracker) {
		res = e.Respond(ctx, s.ID, t, query)
	})
	return res
}

// decide applies the response decision ladder in its fixed order.
func decide(query string, resolved intent.Resolution, similarity float64, answer index.ContextualAnswer) (Category, string) {
	intents := resolved.Intents
	confidence := resolved.OverallConfidence

	if conversation.IsIrrelevant(query, intents, confidence, similarity) {
		return CategoryOffTopic, conversation.Fallback(query, intents, similarity)
	}

	if similarity < clarifySimilarity && confidence < clarifyConfidence {
		if prompt, ok := conversation.ShouldClarify(intents, confidence, similarity); ok {
			return CategoryClarify, prompt
		}
		return CategoryFallback, conversation.Fallback(query, intents, similarity)
	}

	if similarity < answerSimilarity {
		return CategoryFallback, conversation.Fallback(query, intents, similarity)
	}

	return CategoryAnswered, answer.Answer
}

// failure applies the analytics failed-turn test and composes its reason.
func failure(res Resolution) (bool, string) {
	var reasons []string
	if res.Category == CategoryOffTopic {
		reasons = append(reasons, "Irrelevant query")
	}
	if res.Similarity < failSimilarity {
		reasons = append(reasons, fmt.Sprintf("Low similarity (%.2f)", res.Similarity))
	}
	if res.OverallConfidence < failConfidence {
		reasons = append(reasons, fmt.Sprintf("Low confidence (%.2f)", res.OverallConfidence))
	}
	if len(reasons) == 0 {
		return false, ""
	}
	return true, strings.Join(reasons, "; ")
}

// record writes the turn to the analytics store.
func (e *Engine) record(ctx context.Context, sessionID string, res *Resolution) {
	if e.store == nil {
		return
	}

	logged, err := e.store.LogQuery(ctx, analytics.Record{
		SessionID:    sessionID,
		Query:        res.Query,
		Intents:      res.Intents,
		Confidence:   res.OverallConfidence,
		Similarity:   res.Similarity,
		ResponseTime: res.ResponseTime,
		Category:     string(res.Category),
	})
	if err != nil {
		e.log.Warn("logging query failed", zap.Error(err))
	} else {
		res.RecordID = logged.ID
	}

	if res.Failed {
		if _, err := e.store.LogFailed(ctx, analytics.FailedRecord{
			SessionID:  sessionID,
			Query:      res.Query,
			Intents:    res.Intents,
			Confidence: res.OverallConfidence,
			Similarity: res.Similarity,
			Reason:     res.FailReason,
		}); err != nil {
			e.log.Warn("logging failed query failed", zap.Error(err))
		}
	}
}

// degraded produces the apology resolution for a turn whose external
// collaborators failed. Session context is not updated.
func (e *Engine) degraded(query string, start time.Time) Resolution {
	return Resolution{
		Query:        query,
		Category:     CategoryFallback,
		Text:         apologyMessage,
		ResponseTime: time.Since(start),
		Failed:       true,
		FailReason:   "Collaborator error",
	}
}
