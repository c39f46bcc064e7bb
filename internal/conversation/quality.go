package conversation

import (
	"fmt"
	"strings"
)

// greetings are short non-question utterances that short-circuit straight
// to off-topic handling regardless of classifier confidence.
var greetings = []string{
	"hi", "hello", "hey", "good morning", "good evening",
	"good night", "thanks", "thank you", "ok", "okay",
	"bye", "goodbye", "happy", "sad", "wow", "nice",
}

// offTopicKeywords mark queries outside the supported domain.
var offTopicKeywords = []string{
	"birthday", "weather", "joke", "game", "recipe", "news",
	"sports", "movie", "music", "song", "poem", "story",
}

// IsIrrelevant reports whether a query is unrelated to customer support.
// The predicates are independent and OR'd together: a greeting-like short
// query, an off-topic keyword, low confidence combined with low
// similarity, or very low similarity on its own.
func IsIrrelevant(query string, intents []string, confidence, similarity float64) bool {
	lower := strings.ToLower(strings.TrimSpace(query))

	if len(lower) < 15 && !strings.Contains(query, "?") {
		for _, g := range greetings {
			if lower == g || strings.HasPrefix(lower, g) {
				return true
			}
		}
	}

	for _, kw := range offTopicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if confidence < 0.35 && similarity < 0.60 {
		return true
	}

	if similarity < 0.50 {
		return true
	}

	return false
}

// ShouldClarify returns a clarification prompt when the signals warrant
// one. The rules are evaluated in strict priority order and only the
// first match fires.
func ShouldClarify(intents []string, confidence, similarity float64) (string, bool) {
	if confidence < 0.30 && similarity < 0.50 {
		return "I'm not sure I understand your question. Could you please rephrase it? I can help you with billing, technical issues, account management, or complaints.", true
	}

	if confidence < 0.25 {
		return "I'm not sure I understand. Could you please provide more details about what you need help with?", true
	}

	if len(intents) > 2 && confidence > 0.30 {
		choices := strings.Join(intents[:len(intents)-1], ", ") + " or " + intents[len(intents)-1]
		return fmt.Sprintf("I see you might be asking about %s. Which one would you like help with?", choices), true
	}

	if confidence >= 0.25 && confidence < 0.35 && len(intents) >= 2 {
		return disambiguation(intents[0]), true
	}

	return "", false
}

// disambiguation maps a primary intent to its canned clarifying question.
func disambiguation(intent string) string {
	switch intent {
	case "billing":
		return "Are you asking about billing, payments, or subscription?"
	case "technical":
		return "Is this a technical issue with the app or website?"
	case "account":
		return "Do you need help with your account settings or profile?"
	case "complaints":
		return "Would you like to file a complaint or speak with a supervisor?"
	default:
		return "Could you provide more details about what you need help with?"
	}
}

// capabilityMessage lists what the bot can do; used for off-topic turns.
const capabilityMessage = "I don't understand that question. I'm a customer support chatbot that can help with:\n\n" +
	"• Billing and payment questions\n" +
	"• Technical issues and troubleshooting\n" +
	"• Account management\n" +
	"• Complaints and feedback\n\n" +
	"Please ask a question related to customer support."

// rephraseMessage is used when similarity is low and no intent was
// detected at all.
const rephraseMessage = "I couldn't understand your question. Could you please rephrase it?\n\n" +
	"I can help with:\n" +
	"• Billing questions\n" +
	"• Technical support\n" +
	"• Account management\n" +
	"• Filing complaints"

// Fallback composes the text shown when retrieval produced nothing worth
// answering with.
func Fallback(query string, intents []string, similarity float64) string {
	if IsIrrelevant(query, intents, 0.30, similarity) {
		return capabilityMessage
	}

	if similarity < 0.60 {
		if len(intents) == 0 {
			return rephraseMessage
		}
		return suggestions(intents[0])
	}

	return "I couldn't find a relevant answer. Could you rephrase your question?"
}

// suggestions maps a primary intent to a canned list of better-phrased
// questions for that topic.
func suggestions(intent string) string {
	switch intent {
	case "billing":
		return "I understand you're asking about billing, but I need more details. Try asking:\n" +
			"• How do I check my bill?\n" +
			"• What payment methods do you accept?\n" +
			"• Can I get a refund?\n" +
			"• How do I cancel my subscription?"
	case "technical":
		return "I understand you need technical help, but could you be more specific? Try:\n" +
			"• My app is crashing\n" +
			"• How do I reset my password?\n" +
			"• I can't log in\n" +
			"• How do I update the software?"
	case "account":
		return "I understand you're asking about your account, but I need more information. Try:\n" +
			"• How do I update my email?\n" +
			"• Can I change my username?\n" +
			"• How do I delete my account?\n" +
			"• How do I update my profile?"
	case "complaints":
		return "I understand you have a concern. To help you better, please be more specific:\n" +
			"• I received a damaged product\n" +
			"• The service quality is poor\n" +
			"• I want to speak to a manager\n" +
			"• My order hasn't arrived"
	default:
		return "I'm not sure I understand. Could you rephrase your question more clearly?"
	}
}
