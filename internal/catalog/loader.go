package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
)

// fencedJSON matches the first ```json fenced block in a markdown document.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*\n(.*?)\n\\s*```")

// Load reads the model list document at path and builds a Catalog from the
// first fenced JSON block it contains. Loading fails softly: a missing or
// unreadable file, a document without a parseable JSON block, or entries that
// violate the default-in-models invariant all degrade to the built-in
// catalog. The caller always gets a usable Catalog and never an error.
func Load(path string, logger *zap.Logger) *Catalog {
	entries, err := extractEntries(path)
	if err != nil {
		logger.Warn("model list unavailable, using built-in catalog",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default()
	}

	c, err := New(entries)
	if err != nil {
		// a single bad entry invalidates the whole document; partial
		// catalogs would make the fallback state ambiguous
		logger.Warn("model list invalid, using built-in catalog",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default()
	}

	logger.Info("model catalog loaded",
		zap.String("path", path),
		zap.Strings("categories", c.Categories()),
	)
	return c
}

func extractEntries(path string) (map[string]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model list: %w", err)
	}

	match := fencedJSON.FindSubmatch(content)
	if match == nil {
		return nil, fmt.Errorf("no fenced json block in %s", path)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(match[1], &entries); err != nil {
		return nil, fmt.Errorf("decode model list block: %w", err)
	}
	return entries, nil
}
