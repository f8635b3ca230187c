package models

// Suggestion is a short text proposal for a filter, with a style hint.
type Suggestion struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}
