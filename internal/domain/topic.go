package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TopicEntry is one row of the study manual's topic index.
// Page is zero when the index does not record a page.
type TopicEntry struct {
	Title    string
	Page     int
	Keywords []string
}

// Validate checks that the entry has a title and a positive page when present.
func (t *TopicEntry) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("topic entry: title is required")
	}
	if t.Page < 0 {
		return fmt.Errorf("topic entry %q: page must be positive, got %d", t.Title, t.Page)
	}
	return nil
}

// PageRef is the manual citation attached to an answer. The zero value means
// no topic matched.
type PageRef struct {
	Page  int
	Title string
}

// Found reports whether the reference points at a topic.
func (p PageRef) Found() bool {
	return p.Title != ""
}

// PagePtr returns the page as a pointer, nil when absent.
func (p PageRef) PagePtr() *int {
	if !p.Found() || p.Page <= 0 {
		return nil
	}
	page := p.Page
	return &page
}

// TitlePtr returns the title as a pointer, nil when absent.
func (p PageRef) TitlePtr() *string {
	if !p.Found() {
		return nil
	}
	title := p.Title
	return &title
}

// MarshalJSON encodes an absent reference as {"page":null,"title":null}.
func (p PageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Page  *int    `json:"page"`
		Title *string `json:"title"`
	}{Page: p.PagePtr(), Title: p.TitlePtr()})
}
