package conversation

import "strings"

// followUpCues are connective/anaphoric fragments that mark a short query
// as a follow-up. Matched as substrings of the lowercased query, like the
// rest of the heuristics here.
var followUpCues = []string{
	"what about", "how about", "and", "also",
	"what if", "but", "however", "still",
	"that", "this", "it", "them", "those",
}

// IsFollowUp reports whether query reads as a follow-up to the previous
// turn: a short query (at most 5 words) containing a follow-up cue, or
// any query referencing "that"/"this" once conversation context exists.
func (t *Tracker) IsFollowUp(query string) bool {
	lower := strings.ToLower(query)

	if len(strings.Fields(query)) <= 5 {
		for _, cue := range followUpCues {
			if strings.Contains(lower, cue) {
				return true
			}
		}
	}

	if t.hasContext {
		if strings.Contains(lower, "that") || strings.Contains(lower, "this") {
			return true
		}
	}

	return false
}

// EnhanceWithContext rewrites a follow-up query by prepending the
// immediately preceding user utterance, space-joined. This is textual
// concatenation, not semantic merging: the combined string simply gives
// the retriever both turns to match against. Non-follow-ups are returned
// unchanged.
func (t *Tracker) EnhanceWithContext(query string) string {
	if !t.IsFollowUp(query) {
		return query
	}

	lastQuery, ok := t.lastUserContent()
	if !ok {
		return query
	}

	lower := strings.ToLower(query)

	for _, phrase := range []string{"what if", "what about", "how about"} {
		if strings.Contains(lower, phrase) {
			return lastQuery + " " + query
		}
	}

	for _, word := range []string{"that", "this", "it"} {
		if strings.Contains(lower, word) {
			return lastQuery + " " + query
		}
	}

	if len(strings.Fields(query)) <= 4 {
		return lastQuery + " " + query
	}

	return query
}

// lastUserContent returns the content of the most recent user turn.
func (t *Tracker) lastUserContent() (string, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == RoleUser {
			return t.turns[i].Content, true
		}
	}
	return "", false
}
