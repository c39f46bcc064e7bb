// Package intent turns raw multi-label classifier scores into an
// actionable intent set plus an overall-confidence scalar.
package intent

import "context"

// The closed set of customer-support intent labels.
const (
	Billing    = "billing"
	Technical  = "technical"
	Account    = "account"
	Complaints = "complaints"
)

// Labels lists every recognized intent label.
var Labels = []string{Billing, Technical, Account, Complaints}

// Classifier scores a text against the fixed label set. Scores are
// independent per label (multi-label) and need not sum to 1.
type Classifier interface {
	// PredictScores returns a probability in [0,1] for each label.
	PredictScores(ctx context.Context, text string) (map[string]float64, error)

	// Name returns the name/identifier of the classifier.
	Name() string
}
