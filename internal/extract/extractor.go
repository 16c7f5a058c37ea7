// Package extract produces entities with spans from markdown text: a fixed
// global vocabulary unconditionally, and deeper domain-specific kinds only
// when classification confidence clears the high threshold.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
	"github.com/docfuse/docfuse/internal/refdata"
)

// Extractor extracts global and domain entities. It is immutable after
// construction and safe for concurrent use; all reference data is shared
// read-only.
type Extractor struct {
	names      *refdata.NameCorpus
	gov        *refdata.GovKB
	units      map[string]refdata.Unit
	unitRegex  *regexp.Regexp
	maxPerKind int
	nlpPersons bool
	log        *logrus.Logger
}

// New creates an extractor. maxPerKind bounds each kind's output to protect
// downstream stages.
func New(cfg model.ExtractConfig, log *logrus.Logger) (*Extractor, error) {
	names, err := refdata.Names()
	if err != nil {
		return nil, err
	}
	gov, err := refdata.Government()
	if err != nil {
		return nil, err
	}
	units, err := refdata.Units()
	if err != nil {
		return nil, err
	}
	return &Extractor{
		names:      names,
		gov:        gov,
		units:      units,
		unitRegex:  buildUnitRegex(units),
		maxPerKind: cfg.MaxPerKind,
		nlpPersons: cfg.NLPPersonPass,
		log:        log,
	}, nil
}

// Extract runs global extraction, and deep extraction when the routing
// decision enables it. Global entities are produced even when deep
// extraction is skipped.
func (e *Extractor) Extract(text string, routing model.Routing) *model.EnrichmentSection {
	section := &model.EnrichmentSection{
		Counts: make(map[string]int),
	}

	var entities []model.Entity
	entities = append(entities, e.extractGlobal(text)...)

	if routing.EnableDeepExtraction {
		deep, kinds := e.extractDomain(text, routing.SpecializationRoute)
		entities = append(entities, deep...)
		section.DeepKinds = kinds
	}

	e.enrichGovernment(entities)

	for _, ent := range entities {
		section.Counts[string(ent.Type)]++
		if ent.IsGovernmentEntity {
			section.GovernmentMatches++
		}
	}
	section.Entities = entities
	return section
}

// globalKindOrder fixes the extraction order so identical text always yields
// an identical entity list.
var globalKindOrder = []model.EntityType{
	model.EntityPerson,
	model.EntityOrg,
	model.EntityLocation,
	model.EntityGPE,
	model.EntityDate,
	model.EntityTime,
	model.EntityMoney,
	model.EntityPercent,
	model.EntityPhone,
	model.EntityURL,
	model.EntityRegulation,
	model.EntityMeasurement,
}

func (e *Extractor) extractGlobal(text string) []model.Entity {
	byKind := map[model.EntityType][]model.Entity{
		model.EntityPerson:      e.extractPersons(text),
		model.EntityOrg:         e.extractOrgs(text),
		model.EntityLocation:    e.extractLocations(text),
		model.EntityGPE:         e.extractGPEs(text),
		model.EntityDate:        extractByPatterns(text, model.EntityDate, datePatterns),
		model.EntityTime:        extractByPatterns(text, model.EntityTime, timePatterns),
		model.EntityMoney:       extractByPatterns(text, model.EntityMoney, moneyPatterns),
		model.EntityPercent:     extractByPatterns(text, model.EntityPercent, percentPatterns),
		model.EntityPhone:       extractByPatterns(text, model.EntityPhone, phonePatterns),
		model.EntityURL:         extractByPatterns(text, model.EntityURL, urlPatterns),
		model.EntityRegulation:  extractByPatterns(text, model.EntityRegulation, regulationPatterns),
		model.EntityMeasurement: e.extractMeasurements(text),
	}

	var out []model.Entity
	for _, kind := range globalKindOrder {
		out = append(out, e.finalize(byKind[kind], model.ScopeGlobal)...)
	}
	return out
}

// finalize applies the shared per-kind contract: validity filter, exact
// surface dedup keeping the first occurrence's span, and the bounded cap.
func (e *Extractor) finalize(entities []model.Entity, scope string) []model.Entity {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Span.Start < entities[j].Span.Start
	})

	seen := make(map[string]struct{})
	var out []model.Entity
	for _, ent := range entities {
		if !validSurface(ent.Text) {
			continue
		}
		key := strings.ToLower(ent.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ent.Scope = scope
		out = append(out, ent)
		if e.maxPerKind > 0 && len(out) >= e.maxPerKind {
			break
		}
	}
	return out
}

// extractByPatterns runs each pattern over the text and records matches with
// whitespace-normalized surfaces and original-text spans.
func extractByPatterns(text string, kind model.EntityType, patterns []*regexp.Regexp) []model.Entity {
	var out []model.Entity
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			out = append(out, model.Entity{
				Text: normalizeWhitespace(text[loc[0]:loc[1]]),
				Type: kind,
				Span: model.Span{Start: loc[0], End: loc[1]},
			})
		}
	}
	return out
}

func (e *Extractor) extractOrgs(text string) []model.Entity {
	out := extractByPatterns(text, model.EntityOrg, []*regexp.Regexp{orgSuffixPattern})

	// A leading article is not part of the name and defeats knowledge-base
	// lookups.
	for i := range out {
		if !strings.HasPrefix(out[i].Text, "The ") {
			continue
		}
		out[i].Text = strings.TrimPrefix(out[i].Text, "The ")
		start := out[i].Span.Start + len("The")
		for start < out[i].Span.End && isSpaceByte(text[start]) {
			start++
		}
		out[i].Span.Start = start
	}

	// Bare acronyms count as organizations only when the government KB
	// recognizes them.
	for _, loc := range acronymPattern.FindAllStringIndex(text, -1) {
		surface := text[loc[0]:loc[1]]
		if _, ok := e.gov.Lookup(surface); !ok {
			continue
		}
		out = append(out, model.Entity{
			Text: surface,
			Type: model.EntityOrg,
			Span: model.Span{Start: loc[0], End: loc[1]},
		})
	}
	return out
}

func (e *Extractor) extractLocations(text string) []model.Entity {
	var out []model.Entity
	for _, m := range locationPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		surface := text[start:end]
		// GPE names are handled by their own kind.
		if _, isGPE := gpeNames[surface]; isGPE {
			continue
		}
		// A single token the name corpus recognizes is a person mention, not
		// a place ("from Sarah"); everything else passes through.
		tokens := strings.Fields(surface)
		if len(tokens) == 1 && (e.names.HasFirstName(tokens[0]) || e.names.HasLastName(tokens[0])) {
			continue
		}
		out = append(out, model.Entity{
			Text: normalizeWhitespace(surface),
			Type: model.EntityLocation,
			Span: model.Span{Start: start, End: end},
		})
	}
	return out
}

func (e *Extractor) extractGPEs(text string) []model.Entity {
	names := make([]string, 0, len(gpeNames))
	for name := range gpeNames {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []model.Entity
	for _, name := range names {
		idx := 0
		for {
			pos := strings.Index(text[idx:], name)
			if pos < 0 {
				break
			}
			start := idx + pos
			end := start + len(name)
			if isWordBounded(text, start, end) {
				out = append(out, model.Entity{
					Text: name,
					Type: model.EntityGPE,
					Span: model.Span{Start: start, End: end},
				})
			}
			idx = end
		}
	}
	return out
}

// enrichGovernment decorates ORG entities that match the government-entity
// knowledge base. The lookup is dictionary-backed, never a scan.
func (e *Extractor) enrichGovernment(entities []model.Entity) {
	for i := range entities {
		if entities[i].Type != model.EntityOrg {
			continue
		}
		if info, ok := e.gov.Lookup(entities[i].Text); ok {
			entities[i].IsGovernmentEntity = true
			entities[i].Government = info
		}
	}
}

// validSurface rejects candidates shorter than 2 characters or with fewer
// than 30% alphanumeric characters (punctuation-only matches).
func validSurface(s string) bool {
	if len(s) < 2 {
		return false
	}
	alnum := 0
	total := 0
	for _, r := range s {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alnum++
		}
	}
	return total > 0 && float64(alnum)/float64(total) >= 0.3
}

// normalizeWhitespace collapses internal whitespace runs to single spaces and
// trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isWordBounded reports whether text[start:end] sits on word boundaries.
func isWordBounded(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
