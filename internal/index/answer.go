package index

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/supportbot/internal/entities"
)

// DefaultAnswerThreshold is the minimum similarity for a retrieved answer
// to be accepted instead of a fallback.
const DefaultAnswerThreshold = 0.5

// handoffMessage is returned when no candidate clears the threshold and
// no intent is available to pick a specific fallback.
const handoffMessage = "I'm sorry, I couldn't find a relevant answer to your question. Would you like to speak with a human agent?"

// BestAnswer is the result of a single-best-candidate lookup.
type BestAnswer struct {
	Found      bool    `json:"found"`
	Answer     string  `json:"answer"`
	Question   string  `json:"question,omitempty"`
	Similarity float64 `json:"similarity"`
	Confidence string  `json:"confidence"`
	Source     string  `json:"source"`
}

// Best returns the single best answer for a query, or a generic
// human-handoff message when the top candidate's similarity is below
// threshold or no candidates exist.
func (ix *Index) Best(ctx context.Context, query, intent string, threshold float64) (BestAnswer, error) {
	results, err := ix.Search(ctx, query, 1, intent)
	if err != nil {
		return BestAnswer{}, err
	}

	if len(results) > 0 && results[0].Similarity >= threshold {
		return BestAnswer{
			Found:      true,
			Answer:     results[0].Answer,
			Question:   results[0].Question,
			Similarity: results[0].Similarity,
			Confidence: results[0].Confidence,
			Source:     "knowledge_base",
		}, nil
	}

	return BestAnswer{
		Found:      false,
		Answer:     handoffMessage,
		Similarity: 0,
		Confidence: "none",
		Source:     "fallback",
	}, nil
}

// ContextualAnswer is a retrieval result enriched with intent and entity
// context.
type ContextualAnswer struct {
	Found           bool     `json:"found"`
	Answer          string   `json:"answer"`
	MatchedQuestion string   `json:"matched_question,omitempty"`
	Similarity      float64  `json:"similarity"`
	Confidence      string   `json:"confidence"`
	IntentUsed      string   `json:"intent_used,omitempty"`
	Alternatives    []Result `json:"alternative_answers,omitempty"`
}

// Contextual searches filtered by the primary intent and, if the filter
// eliminates every candidate, retries once unfiltered over the full
// corpus: the intent filter is a soft preference, never a hard
// requirement. Accepted answers are personalized with one addendum per
// present entity kind (account number first, then product name), using
// only the first extracted value of each.
func (ix *Index) Contextual(ctx context.Context, query string, intents []string, ents entities.Set) (ContextualAnswer, error) {
	primary := ""
	if len(intents) > 0 {
		primary = intents[0]
	}

	results, err := ix.Search(ctx, query, 3, primary)
	if err != nil {
		return ContextualAnswer{}, err
	}
	if len(results) == 0 {
		results, err = ix.Search(ctx, query, 3, "")
		if err != nil {
			return ContextualAnswer{}, err
		}
	}

	if len(results) == 0 || results[0].Similarity < DefaultAnswerThreshold {
		return ContextualAnswer{
			Found:      false,
			Answer:     intentFallback(intents),
			Confidence: "none",
			IntentUsed: primary,
		}, nil
	}

	best := results[0]
	answer := best.Answer

	if len(ents.AccountNumbers) > 0 {
		answer += fmt.Sprintf("\n\nFor account %s, you can access this in your account dashboard.", ents.AccountNumbers[0])
	}
	if len(ents.ProductNames) > 0 {
		answer += fmt.Sprintf("\n\nFor %s, please ensure you're using the latest version.", ents.ProductNames[0])
	}

	return ContextualAnswer{
		Found:           true,
		Answer:          answer,
		MatchedQuestion: best.Question,
		Similarity:      best.Similarity,
		Confidence:      best.Confidence,
		IntentUsed:      primary,
		Alternatives:    results[1:],
	}, nil
}

// intentFallback maps the primary intent to its canned fallback text.
// The intent set is closed, so unknown labels fall through to the
// generic handoff.
func intentFallback(intents []string) string {
	if len(intents) == 0 {
		return "I'm not sure I understand. Could you please rephrase your question?"
	}

	switch intents[0] {
	case "billing":
		return "I couldn't find specific billing information for your query. Please contact our billing department at billing@company.com or call 1-800-BILLING."
	case "technical":
		return "I couldn't find a solution for this technical issue. Please contact our technical support team at support@company.com or visit our troubleshooting guide."
	case "account":
		return "I couldn't find information about this account feature. Please check your Account Settings or contact support@company.com for assistance."
	case "complaints":
		return "I'm sorry you're experiencing this issue. A customer service representative will contact you within 24 hours. You can also call 1-800-SUPPORT for immediate assistance."
	default:
		return "I couldn't find a relevant answer. Would you like to speak with a human agent?"
	}
}
