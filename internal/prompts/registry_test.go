package prompts

import (
	"strings"
	"testing"
)

func TestDefault_CoversAllCategories(t *testing.T) {
	r := Default()
	for _, c := range AllCategories {
		tpl, ok := r.Lookup(string(c))
		if !ok {
			t.Fatalf("category %q not registered", c)
		}
		if tpl.SystemPrompt == "" || tpl.Title == "" || len(tpl.Suggestions) == 0 {
			t.Fatalf("incomplete template for %q: %+v", c, tpl)
		}
	}
	if got := len(r.Templates()); got != len(AllCategories) {
		t.Fatalf("expected %d templates, got %d", len(AllCategories), got)
	}
}

func TestSystemPrompt_UnknownFallsBack(t *testing.T) {
	r := Default()

	want := r.SystemPrompt(string(DefaultCategory))
	for _, c := range []string{"", "podcasting", "BRANDING "} {
		if got := r.SystemPrompt(c); got != want {
			t.Fatalf("category %q: expected fallback prompt", c)
		}
	}
	if r.IsKnown("podcasting") {
		t.Fatalf("podcasting should be unknown")
	}
	if !r.IsKnown(" Marketing") {
		t.Fatalf("lookup should ignore case and spaces")
	}
	if r.SystemPrompt("marketing") == want {
		t.Fatalf("marketing should have its own prompt")
	}
}

func TestTitleInstruction_IsCategoryIndependent(t *testing.T) {
	r := Default()
	if !strings.Contains(r.TitleInstruction(), "3-6 words") {
		t.Fatalf("unexpected title instruction: %q", r.TitleInstruction())
	}
}

func TestNewRegistry_Validates(t *testing.T) {
	partial := []Template{{Category: Branding, SystemPrompt: "x"}}
	if _, err := NewRegistry(partial, Branding); err == nil {
		t.Fatalf("expected error for missing categories")
	}

	if _, err := NewRegistry(builtin, Category("nope")); err == nil {
		t.Fatalf("expected error for unknown fallback")
	}

	broken := append([]Template(nil), builtin...)
	broken[0].SystemPrompt = "  "
	if _, err := NewRegistry(broken, Branding); err == nil {
		t.Fatalf("expected error for empty prompt")
	}

	dup := append(append([]Template(nil), builtin...), builtin[0])
	if _, err := NewRegistry(dup, Branding); err == nil {
		t.Fatalf("expected error for duplicate category")
	}
}
