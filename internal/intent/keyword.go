package intent

import (
	"context"
	"strings"
)

// KeywordClassifier is a lexicon-based scorer over the fixed label set.
// It exists so the pipeline can run without the external scoring service
// (local development, tests); the scores are coarse but land in the same
// [0,1] range the resolver expects.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a lexicon-based classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Name() string { return "keyword" }

var lexicon = map[string][]string{
	Billing: {
		"bill", "billing", "payment", "pay", "charge", "charged", "refund",
		"invoice", "subscription", "price", "cost", "fee",
	},
	Technical: {
		"crash", "crashing", "error", "bug", "broken", "not working",
		"password", "login", "log in", "install", "update", "reset",
		"slow", "freeze", "loading",
	},
	Account: {
		"account", "profile", "email", "username", "settings", "delete",
		"sign up", "register", "personal", "information",
	},
	Complaints: {
		"complaint", "complain", "disappointed", "terrible", "awful",
		"manager", "supervisor", "unacceptable", "poor", "damaged",
		"never arrived", "worst",
	},
}

// PredictScores scores each label by the fraction of its lexicon present
// in the text, boosted so a couple of strong keyword hits clear the
// resolver's selection threshold.
func (c *KeywordClassifier) PredictScores(_ context.Context, text string) (map[string]float64, error) {
	lower := strings.ToLower(text)

	scores := make(map[string]float64, len(Labels))
	for _, label := range Labels {
		hits := 0
		for _, kw := range lexicon[label] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		score := float64(hits) * 0.3
		if score > 0.95 {
			score = 0.95
		}
		scores[label] = score
	}
	return scores, nil
}
