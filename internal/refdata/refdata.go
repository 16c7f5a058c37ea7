// Package refdata loads the read-only reference data used across the
// pipeline: the first/last-name corpus backing person extraction, the
// government-entity knowledge base, the domain/doctype keyword tables, and
// the measurement unit table.
//
// Everything is embedded, parsed once on first use, and shared immutably
// across all workers. No locking is needed after load because nothing here
// is ever mutated.
package refdata

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/docfuse/docfuse/internal/model"
)

//go:embed data/*.yaml
var dataFS embed.FS

// NameCorpus provides O(1) membership checks for known person names.
type NameCorpus struct {
	first map[string]struct{}
	last  map[string]struct{}
}

// HasFirstName reports whether the token is a known first name.
func (c *NameCorpus) HasFirstName(token string) bool {
	_, ok := c.first[strings.ToLower(token)]
	return ok
}

// HasLastName reports whether the token is a known last name.
func (c *NameCorpus) HasLastName(token string) bool {
	_, ok := c.last[strings.ToLower(token)]
	return ok
}

// GovEntry is one government-entity record in the knowledge base.
type GovEntry struct {
	FormalName   string   `yaml:"formal_name"`
	Abbreviation string   `yaml:"abbreviation"`
	Aliases      []string `yaml:"aliases"`
	Website      string   `yaml:"website"`
	Mission      string   `yaml:"mission"`
	ParentAgency string   `yaml:"parent_agency"`
}

// GovKB is the government-entity knowledge base with a dictionary index over
// formal names, abbreviations and aliases. Lookup is O(1) per entity; it runs
// per-organization across potentially hundreds of entities per document.
type GovKB struct {
	index map[string]*GovEntry
}

// Lookup returns the enrichment record matching the given organization text,
// by formal name, abbreviation, or alias (case-insensitive exact match).
func (kb *GovKB) Lookup(name string) (*model.GovernmentInfo, bool) {
	entry, ok := kb.index[normalizeKey(name)]
	if !ok {
		return nil, false
	}
	return &model.GovernmentInfo{
		FormalName:   entry.FormalName,
		Abbreviation: entry.Abbreviation,
		Website:      entry.Website,
		Mission:      entry.Mission,
		ParentAgency: entry.ParentAgency,
	}, true
}

// KeywordTables holds the domain and doctype keyword lists for the classifier.
type KeywordTables struct {
	Domains  map[string][]string `yaml:"domains"`
	DocTypes map[string][]string `yaml:"doc_types"`
}

// Unit describes one recognized measurement unit.
type Unit struct {
	Canonical string  `yaml:"canonical"`
	Category  string  `yaml:"category"`
	Factor    float64 `yaml:"factor"`
}

type namesFile struct {
	FirstNames []string `yaml:"first_names"`
	LastNames  []string `yaml:"last_names"`
}

type govFile struct {
	Entities []GovEntry `yaml:"entities"`
}

type unitsFile struct {
	Units map[string]Unit `yaml:"units"`
}

var (
	loadOnce sync.Once
	loadErr  error

	names    *NameCorpus
	gov      *GovKB
	keywords *KeywordTables
	units    map[string]Unit
)

func load() {
	names, loadErr = loadNames()
	if loadErr != nil {
		return
	}
	gov, loadErr = loadGov()
	if loadErr != nil {
		return
	}
	keywords, loadErr = loadKeywords()
	if loadErr != nil {
		return
	}
	units, loadErr = loadUnits()
}

func loadNames() (*NameCorpus, error) {
	raw, err := dataFS.ReadFile("data/names.yaml")
	if err != nil {
		return nil, fmt.Errorf("read names corpus: %w", err)
	}
	var f namesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse names corpus: %w", err)
	}
	c := &NameCorpus{
		first: make(map[string]struct{}, len(f.FirstNames)),
		last:  make(map[string]struct{}, len(f.LastNames)),
	}
	for _, n := range f.FirstNames {
		c.first[strings.ToLower(n)] = struct{}{}
	}
	for _, n := range f.LastNames {
		c.last[strings.ToLower(n)] = struct{}{}
	}
	return c, nil
}

func loadGov() (*GovKB, error) {
	raw, err := dataFS.ReadFile("data/government_entities.yaml")
	if err != nil {
		return nil, fmt.Errorf("read government entities: %w", err)
	}
	var f govFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse government entities: %w", err)
	}
	kb := &GovKB{index: make(map[string]*GovEntry)}
	for i := range f.Entities {
		e := &f.Entities[i]
		kb.index[normalizeKey(e.FormalName)] = e
		if e.Abbreviation != "" {
			kb.index[normalizeKey(e.Abbreviation)] = e
		}
		for _, alias := range e.Aliases {
			kb.index[normalizeKey(alias)] = e
		}
	}
	return kb, nil
}

func loadKeywords() (*KeywordTables, error) {
	raw, err := dataFS.ReadFile("data/domains.yaml")
	if err != nil {
		return nil, fmt.Errorf("read keyword tables: %w", err)
	}
	var t KeywordTables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse keyword tables: %w", err)
	}
	return &t, nil
}

func loadUnits() (map[string]Unit, error) {
	raw, err := dataFS.ReadFile("data/units.yaml")
	if err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	var f unitsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse unit table: %w", err)
	}
	return f.Units, nil
}

// Names returns the shared name corpus.
func Names() (*NameCorpus, error) {
	loadOnce.Do(load)
	return names, loadErr
}

// Government returns the shared government-entity knowledge base.
func Government() (*GovKB, error) {
	loadOnce.Do(load)
	return gov, loadErr
}

// Keywords returns the shared domain/doctype keyword tables.
func Keywords() (*KeywordTables, error) {
	loadOnce.Do(load)
	return keywords, loadErr
}

// Units returns the shared measurement unit table keyed by surface alias.
func Units() (map[string]Unit, error) {
	loadOnce.Do(load)
	return units, loadErr
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
