package rules

import (
	_ "embed"
	"fmt"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"plum/internal/lint"
)

//go:embed catalog.toml
var catalogData []byte

// Entry is the default metadata of one rule.
type Entry struct {
	// ID is the rule code, such as C-F3
	ID string `toml:"id"`

	// Severity is the default severity name
	Severity string `toml:"severity"`

	// Kinds lists the file kinds the rule checks: c, h and mk
	Kinds []string `toml:"kinds"`

	// Description is the message used when a finding carries none
	Description string `toml:"description"`
}

// CatalogFile is the root structure of catalog.toml.
type CatalogFile struct {
	Rules []Entry `toml:"rule"`
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var c CatalogFile
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse rule catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Rules))
	for _, e := range c.Rules {
		if e.ID == "" {
			return nil, fmt.Errorf("rule catalog: entry without id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("rule catalog: duplicate id %s", e.ID)
		}
		seen[e.ID] = true
		if _, err := lint.ParseKinds(e.Kinds); err != nil {
			return nil, fmt.Errorf("rule catalog: %s: %w", e.ID, err)
		}
	}
	return &c, nil
}

var builtinCatalog = sync.OnceValues(func() (map[string]Entry, error) {
	c, err := ParseCatalog(catalogData)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Entry, len(c.Rules))
	for _, e := range c.Rules {
		out[e.ID] = e
	}
	return out, nil
})

// Lookup returns the built-in metadata of a rule.
func Lookup(id string) (Entry, bool) {
	entries, err := builtinCatalog()
	if err != nil {
		return Entry{}, false
	}
	e, ok := entries[id]
	return e, ok
}
