// Package prompts holds the fixed category table: system prompts, display
// titles and suggested openers, plus the title-generation instruction.
package prompts

import (
	"fmt"
	"strings"
)

type Category string

const (
	Writing   Category = "writing"
	Branding  Category = "branding"
	Creative  Category = "creative"
	Marketing Category = "marketing"
	Technical Category = "technical"
	Analytics Category = "analytics"
	Instagram Category = "instagram"
)

// AllCategories is the closed set offered to clients, in display order.
var AllCategories = []Category{Writing, Branding, Creative, Marketing, Technical, Analytics, Instagram}

// DefaultCategory is used for any category without a template.
const DefaultCategory = Branding

type Template struct {
	Category     Category `json:"id"`
	Title        string   `json:"title"`
	SystemPrompt string   `json:"-"`
	Suggestions  []string `json:"suggestions"`
}

// Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	templates map[Category]Template
	fallback  Category
}

// NewRegistry checks that every category in AllCategories and the fallback
// have a non-empty system prompt.
func NewRegistry(templates []Template, fallback Category) (*Registry, error) {
	m := make(map[Category]Template, len(templates))
	for _, t := range templates {
		if strings.TrimSpace(t.SystemPrompt) == "" {
			return nil, fmt.Errorf("prompts: empty system prompt for %q", t.Category)
		}
		if _, dup := m[t.Category]; dup {
			return nil, fmt.Errorf("prompts: duplicate template for %q", t.Category)
		}
		t.Suggestions = append([]string(nil), t.Suggestions...)
		m[t.Category] = t
	}
	for _, c := range AllCategories {
		if _, ok := m[c]; !ok {
			return nil, fmt.Errorf("prompts: missing template for %q", c)
		}
	}
	if _, ok := m[fallback]; !ok {
		return nil, fmt.Errorf("prompts: fallback %q has no template", fallback)
	}
	return &Registry{templates: m, fallback: fallback}, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtin, DefaultCategory)
	if err != nil {
		panic(err)
	}
	return r
}

func normalize(category string) Category {
	return Category(strings.ToLower(strings.TrimSpace(category)))
}

func (r *Registry) IsKnown(category string) bool {
	_, ok := r.templates[normalize(category)]
	return ok
}

// Lookup returns the template for category, or the fallback template with ok=false.
func (r *Registry) Lookup(category string) (Template, bool) {
	if t, ok := r.templates[normalize(category)]; ok {
		return t, true
	}
	return r.templates[r.fallback], false
}

func (r *Registry) SystemPrompt(category string) string {
	t, _ := r.Lookup(category)
	return t.SystemPrompt
}

func (r *Registry) TitleInstruction() string {
	return titleInstruction
}

// Templates lists the templates in AllCategories order.
func (r *Registry) Templates() []Template {
	out := make([]Template, 0, len(AllCategories))
	for _, c := range AllCategories {
		out = append(out, r.templates[c])
	}
	return out
}
