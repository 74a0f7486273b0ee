// Package atlas defines the in-memory content tree the static renderer
// consumes: pattern languages keyed by id, patterns keyed by id, and the
// membership of patterns in languages. The tree is constructed by the host
// (or loaded from a JSON export) and treated as read-only by the renderer.
package atlas

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Content is the root of the content tree.
type Content struct {
	Languages map[string]*PatternLanguage `json:"languages"`
	Patterns  map[string]*Pattern         `json:"patterns"`
}

// PatternLanguage is a named, ordered collection of related patterns.
type PatternLanguage struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Logo     string   `json:"logo,omitempty"`
	Intro    string   `json:"intro,omitempty"`
	Patterns []string `json:"patterns"`
}

// Pattern is a single documented solution entry in the knowledge base.
type Pattern struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	Intro    string    `json:"intro,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is one labelled markdown block of a pattern's detail page.
type Section struct {
	Label    string `json:"label"`
	Markdown string `json:"markdown"`
}

// Decode reads a JSON content tree and validates cross references.
func Decode(r io.Reader) (*Content, error) {
	var content Content
	dec := json.NewDecoder(r)
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("atlas: decode content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return &content, nil
}

// LoadFile reads a JSON content tree from disk.
func LoadFile(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atlas: open content file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks that every pattern id referenced by a language resolves to
// a pattern record. A dangling reference is a content bug the renderer must
// surface before any file is written.
func (c *Content) Validate() error {
	for id, lang := range c.Languages {
		if lang == nil {
			return fmt.Errorf("atlas: language %q is nil", id)
		}
		for _, patternID := range lang.Patterns {
			if _, ok := c.Patterns[patternID]; !ok {
				return fmt.Errorf("atlas: language %q references unknown pattern %q", id, patternID)
			}
		}
	}
	return nil
}

// Pattern returns the pattern record for id.
func (c *Content) Pattern(id string) (*Pattern, bool) {
	p, ok := c.Patterns[id]
	return p, ok
}
