// Package conversation maintains bounded per-session dialogue memory and
// the heuristics that decide whether a query is a follow-up, irrelevant,
// or in need of clarification.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/supportbot/internal/entities"
)

// Role identifies the sender of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultMaxHistory is the number of logical exchanges retained; each
// exchange is two turns (user + assistant).
const DefaultMaxHistory = 5

// TurnMetadata carries the per-turn signals attached to a user message.
type TurnMetadata struct {
	Intents  []string     `json:"intents,omitempty"`
	Entities entities.Set `json:"entities,omitempty"`
}

// Turn is one entry in the conversation log.
type Turn struct {
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Metadata  TurnMetadata `json:"metadata"`
}

// Context is the derived snapshot of the conversation: the most recent
// intents plus sticky slots that persist until a later extraction
// overwrites them.
type Context struct {
	LastIntent string   `json:"last_intent,omitempty"`
	AllIntents []string `json:"all_intents,omitempty"`
	Account    string   `json:"account,omitempty"`
	Product    string   `json:"product,omitempty"`
	Order      string   `json:"order,omitempty"`
}

// Tracker holds one session's conversation state. It is not safe for
// concurrent use; the pipeline serves at most one in-flight turn per
// session.
type Tracker struct {
	maxHistory int
	turns      []Turn
	context    Context
	hasContext bool
}

// NewTracker creates a tracker retaining the last maxHistory exchanges.
// maxHistory <= 0 uses DefaultMaxHistory.
func NewTracker(maxHistory int) *Tracker {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Tracker{maxHistory: maxHistory}
}

// AddTurn appends a turn to the log, truncating to the most recent
// 2*maxHistory entries. Only user turns update the context snapshot;
// assistant turns never do.
func (t *Tracker) AddTurn(role Role, content string, md TurnMetadata) {
	t.turns = append(t.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  md,
	})

	if limit := t.maxHistory * 2; len(t.turns) > limit {
		t.turns = t.turns[len(t.turns)-limit:]
	}

	if role == RoleUser {
		t.context = merge(t.context, md)
		// A bare turn carries nothing to anchor anaphora against, so it
		// does not establish context for IsFollowUp.
		if md.Intents != nil || !md.Entities.Empty() {
			t.hasContext = true
		}
	}
}

// merge derives the next context snapshot from the previous one and a
// user turn's metadata. Intents are overwritten wholesale (to none if the
// turn carried none); each sticky slot is overwritten independently and
// only when the turn extracted a value for it.
func merge(old Context, md TurnMetadata) Context {
	next := old

	if len(md.Intents) > 0 {
		next.LastIntent = md.Intents[0]
	} else {
		next.LastIntent = ""
	}
	next.AllIntents = append([]string(nil), md.Intents...)

	if len(md.Entities.AccountNumbers) > 0 {
		next.Account = md.Entities.AccountNumbers[0]
	}
	if len(md.Entities.ProductNames) > 0 {
		next.Product = md.Entities.ProductNames[0]
	}
	if len(md.Entities.OrderNumbers) > 0 {
		next.Order = md.Entities.OrderNumbers[0]
	}

	return next
}

// GetContext returns a copy of the current context snapshot.
func (t *Tracker) GetContext() Context {
	c := t.context
	c.AllIntents = append([]string(nil), t.context.AllIntents...)
	return c
}

// RecentTurns returns the last count exchanges (2*count turns).
func (t *Tracker) RecentTurns(count int) []Turn {
	n := count * 2
	if n >= len(t.turns) {
		return append([]Turn(nil), t.turns...)
	}
	return append([]Turn(nil), t.turns[len(t.turns)-n:]...)
}

// Summary describes the conversation so far.
func (t *Tracker) Summary() string {
	if len(t.turns) == 0 {
		return "No conversation yet"
	}

	users := 0
	for _, turn := range t.turns {
		if turn.Role == RoleUser {
			users++
		}
	}

	summary := fmt.Sprintf("Conversation with %d queries", users)

	if len(t.context.AllIntents) > 0 {
		seen := map[string]bool{}
		var topics []string
		for _, it := range t.context.AllIntents {
			if !seen[it] {
				seen[it] = true
				topics = append(topics, it)
			}
		}
		summary += "\nTopics discussed: " + strings.Join(topics, ", ")
	}

	return summary
}

// Reset discards the conversation log and context snapshot.
func (t *Tracker) Reset() {
	t.turns = nil
	t.context = Context{}
	t.hasContext = false
}
