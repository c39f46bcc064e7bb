// Package faq loads and models the FAQ corpus that the semantic index
// is built over.
package faq

// Entry is a single FAQ row. Entries are immutable once loaded; the row
// position in the corpus is the join key between the vector index and
// the metadata table.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Intent   string `json:"intent"`
}
