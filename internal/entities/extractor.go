// Package entities extracts structured values (account numbers, product
// names, order numbers, dates, amounts) from raw query text using regex
// patterns. Extraction is stateless; results feed retrieval
// personalization and the conversation context tracker.
package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// Set holds all entities extracted from a single piece of text.
type Set struct {
	AccountNumbers []string `json:"account_numbers"`
	ProductNames   []string `json:"product_names"`
	OrderNumbers   []string `json:"order_numbers"`
	Dates          []Date   `json:"dates"`
	Amounts        []Amount `json:"amounts"`
}

// Date is a date mention found in text.
type Date struct {
	Text string `json:"text"`
}

// Amount is a monetary amount found in text.
type Amount struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

var (
	accountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)account\s*#?\s*(\d{6,12})`),
		regexp.MustCompile(`(?i)account\s+number\s+(\d{6,12})`),
		regexp.MustCompile(`(?i)acc\s*#?\s*(\d{6,12})`),
		regexp.MustCompile(`\b(\d{10,12})\b`),
	}

	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)product\s+([A-Za-z0-9\-]+)`),
		regexp.MustCompile(`(?i)([A-Za-z0-9\-]+)\s+product`),
		regexp.MustCompile(`(?i)with\s+([A-Za-z][A-Za-z0-9\-]+)`),
		regexp.MustCompile(`(?i)for\s+([A-Za-z][A-Za-z0-9\-]+)`),
	}

	orderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)order\s*#?\s*([A-Z0-9]{6,15})`),
		regexp.MustCompile(`(?i)order\s+number\s+([A-Z0-9]{6,15})`),
		regexp.MustCompile(`(?i)order\s+id\s+([A-Z0-9]{6,15})`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
		regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:yesterday|today|tomorrow)\b`),
		regexp.MustCompile(`(?i)\blast\s+(?:week|month|year|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\bnext\s+(?:week|month|year|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	}

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\s*(\d+(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*dollars?`),
		regexp.MustCompile(`(?i)amount\s+of\s+\$?(\d+(?:\.\d{2})?)`),
	}
)

// ignoreWords filters out common support vocabulary that the loose product
// patterns would otherwise pick up as product names.
var ignoreWords = map[string]bool{
	"issue": true, "problem": true, "help": true, "support": true,
	"service": true, "account": true, "billing": true, "payment": true,
	"refund": true, "cancel": true, "update": true, "change": true,
}

// Extract returns all entities found in text.
func Extract(text string) Set {
	return Set{
		AccountNumbers: extractGroups(accountPatterns, text, nil),
		ProductNames: extractGroups(productPatterns, text, func(m string) bool {
			return !ignoreWords[strings.ToLower(m)] && len(m) > 1
		}),
		OrderNumbers: extractGroups(orderPatterns, text, nil),
		Dates:        extractDates(text),
		Amounts:      extractAmounts(text),
	}
}

// extractGroups collects the first capture group of every pattern match,
// deduplicated in first-seen order.
func extractGroups(patterns []*regexp.Regexp, text string, keep func(string) bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			v := m[1]
			if seen[v] || (keep != nil && !keep(v)) {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func extractDates(text string) []Date {
	var out []Date
	seen := map[string]bool{}
	for _, p := range datePatterns {
		for _, m := range p.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, Date{Text: m})
		}
	}
	return out
}

func extractAmounts(text string) []Amount {
	var out []Amount
	for _, p := range amountPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			out = append(out, Amount{Text: m[0], Value: value})
		}
	}
	return out
}

// Summary returns a human-readable one-line summary of the set, or
// "No entities found".
func (s Set) Summary() string {
	var parts []string
	if len(s.AccountNumbers) > 0 {
		parts = append(parts, "Account: "+strings.Join(s.AccountNumbers, ", "))
	}
	if len(s.ProductNames) > 0 {
		parts = append(parts, "Product: "+strings.Join(s.ProductNames, ", "))
	}
	if len(s.OrderNumbers) > 0 {
		parts = append(parts, "Order: "+strings.Join(s.OrderNumbers, ", "))
	}
	if len(s.Dates) > 0 {
		texts := make([]string, len(s.Dates))
		for i, d := range s.Dates {
			texts[i] = d.Text
		}
		parts = append(parts, "Date: "+strings.Join(texts, ", "))
	}
	if len(s.Amounts) > 0 {
		texts := make([]string, len(s.Amounts))
		for i, a := range s.Amounts {
			texts[i] = a.Text
		}
		parts = append(parts, "Amount: "+strings.Join(texts, ", "))
	}
	if len(parts) == 0 {
		return "No entities found"
	}
	return strings.Join(parts, " | ")
}

// Empty reports whether no entities of any kind were extracted.
func (s Set) Empty() bool {
	return len(s.AccountNumbers) == 0 && len(s.ProductNames) == 0 &&
		len(s.OrderNumbers) == 0 && len(s.Dates) == 0 && len(s.Amounts) == 0
}
