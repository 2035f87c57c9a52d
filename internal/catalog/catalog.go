package catalog

import (
	"fmt"
	"sort"
)

// Category names recognized by the built-in catalog. A loaded document may
// declare any category name; these are only the ones we ship defaults for.
const (
	CategoryTextGen   = "text_gen"
	CategoryText2Text = "text2text"
	CategoryImage     = "image"
	CategoryEmbedding = "embedding"
	CategoryTTS       = "tts"
	CategorySTT       = "stt"
)

// Entry describes the valid models for a single category and which of them
// is used when the caller does not pin one.
type Entry struct {
	Default string   `json:"default"`
	Models  []string `json:"models"`
}

// Catalog is an immutable category -> Entry lookup table. It is built once
// during startup and shared by reference across request handlers; all methods
// are read-only, so no locking is needed.
type Catalog struct {
	entries map[string]Entry
}

// New builds a Catalog from raw entries, enforcing that every category has a
// non-empty model list and that its default is a member of that list.
func New(entries map[string]Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	indexed := make(map[string]Entry, len(entries))
	for category, e := range entries {
		if len(e.Models) == 0 {
			return nil, fmt.Errorf("category %q declares no models", category)
		}
		if e.Default == "" {
			return nil, fmt.Errorf("category %q has no default model", category)
		}
		if !contains(e.Models, e.Default) {
			return nil, fmt.Errorf("category %q default %q is not in its model list", category, e.Default)
		}
		indexed[category] = Entry{Default: e.Default, Models: append([]string(nil), e.Models...)}
	}

	return &Catalog{entries: indexed}, nil
}

// Default returns the built-in catalog used when the model list document is
// missing or unusable.
func Default() *Catalog {
	c, err := New(map[string]Entry{
		CategoryTextGen: {
			Default: "gpt-4o",
			Models:  []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"},
		},
		CategoryText2Text: {
			Default: "gpt-4o-mini",
			Models:  []string{"gpt-4o-mini", "gpt-4.1-mini"},
		},
		CategoryImage: {
			Default: "gpt-image-1",
			Models:  []string{"gpt-image-1"},
		},
		CategoryEmbedding: {
			Default: "text-embedding-3-small",
			Models:  []string{"text-embedding-3-small", "text-embedding-3-large"},
		},
		CategoryTTS: {
			Default: "tts-1",
			Models:  []string{"tts-1", "tts-1-hd"},
		},
		CategorySTT: {
			Default: "whisper-1",
			Models:  []string{"whisper-1"},
		},
	})
	if err != nil {
		// the built-in table is a compile-time constant; this cannot happen
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}

// Select resolves the upstream model identifier for a request. An unknown
// category returns ("", false). A requested model that the category lists is
// returned unchanged; anything else resolves to the category default. Select
// never returns a model name the catalog does not list.
func (c *Catalog) Select(category, requested string) (string, bool) {
	e, ok := c.entries[category]
	if !ok {
		return "", false
	}
	if requested != "" && contains(e.Models, requested) {
		return requested, true
	}
	return e.Default, true
}

// Models returns the declared models for a category, or an empty slice if the
// category is unknown.
func (c *Catalog) Models(category string) []string {
	e, ok := c.entries[category]
	if !ok {
		return []string{}
	}
	return append([]string(nil), e.Models...)
}

// DefaultModel returns the default model for a category, or "" if the
// category is unknown.
func (c *Catalog) DefaultModel(category string) string {
	return c.entries[category].Default
}

// IsValid reports whether model is listed under category.
func (c *Catalog) IsValid(category, model string) bool {
	e, ok := c.entries[category]
	if !ok {
		return false
	}
	return contains(e.Models, model)
}

// Categories returns the sorted category names.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}
