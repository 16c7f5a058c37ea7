package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/docfuse/docfuse/internal/model"
)

// Stats summarizes a canonicalization pass.
type Stats struct {
	RawCount         int
	CanonicalCount   int
	ReductionPercent float64
}

// mentionContext is how many bytes of surrounding text each mention keeps.
const mentionContext = 40

// Canonicalize groups raw entities into canonical entities: one id per
// group, every contributing surface form recorded as an alias, every
// occurrence recorded as a mention. Raw entities are consumed, not mutated.
func Canonicalize(entities []model.Entity, text string) ([]model.CanonicalEntity, Stats) {
	type group struct {
		key      string
		display  string
		typ      model.EntityType
		norm     model.NormalizedValue
		gov      *model.GovernmentInfo
		aliases  []string
		mentions []model.Mention
	}

	groups := make(map[string]*group)
	var order []string

	for _, e := range entities {
		nv := Value(e)
		key := string(e.Type) + "|" + groupKey(e, nv)

		g, ok := groups[key]
		if !ok {
			g = &group{key: key, typ: e.Type, display: e.Text, norm: nv}
			groups[key] = g
			order = append(order, key)
		}

		if e.Government != nil && g.gov == nil {
			g.gov = e.Government
		}
		// The canonical display form is the most complete observed alias,
		// unless the reference KB supplies an authoritative formal name.
		if g.gov != nil && g.gov.FormalName != "" {
			g.display = g.gov.FormalName
		} else if len(e.Text) > len(g.display) {
			g.display = e.Text
			g.norm = nv
		}
		if !containsFold(g.aliases, e.Text) {
			g.aliases = append(g.aliases, e.Text)
		}
		g.mentions = append(g.mentions, model.Mention{
			Text:    e.Text,
			Context: contextSnippet(text, e.Span),
			Span:    e.Span,
		})
	}

	out := make([]model.CanonicalEntity, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.Strings(g.aliases)
		out = append(out, model.CanonicalEntity{
			ID:         canonicalID(g.typ, g.display),
			Type:       g.typ,
			Value:      g.display,
			Normalized: g.norm,
			Aliases:    g.aliases,
			Count:      len(g.mentions),
			Mentions:   g.mentions,
			Government: g.gov,
		})
	}

	stats := Stats{RawCount: len(entities), CanonicalCount: len(out)}
	if stats.RawCount > 0 {
		stats.ReductionPercent = (1 - float64(stats.CanonicalCount)/float64(stats.RawCount)) * 100
	}
	return out, stats
}

// groupKey decides which raw entities merge. Value-typed entities group by
// normalized value equality; named entities group by their government formal
// name when enriched, with an acronym/expansion fallback, then by lowercase
// surface.
func groupKey(e model.Entity, nv model.NormalizedValue) string {
	switch e.Type {
	case model.EntityMoney:
		if nv.Normalized {
			return fmt.Sprintf("money:%.2f:%s", nv.Amount, nv.Currency)
		}
	case model.EntityDate:
		if nv.Normalized {
			return "date:" + nv.Date
		}
	case model.EntityMeasurement:
		if nv.Normalized {
			return fmt.Sprintf("meas:%s:%g:%s", nv.Category, nv.Value, nv.Unit)
		}
	case model.EntityPercent:
		if nv.Normalized {
			return fmt.Sprintf("pct:%g", nv.Value)
		}
	case model.EntityOrg, model.EntityAgency, model.EntityStandardsBody:
		if e.Government != nil && e.Government.FormalName != "" {
			return "gov:" + strings.ToLower(e.Government.FormalName)
		}
		return "name:" + acronymKey(e.Text)
	case model.EntityPerson, model.EntityLocation, model.EntityGPE:
		return "name:" + strings.ToLower(e.Text)
	}
	return "text:" + strings.ToLower(e.Text)
}

// acronymKey folds an acronym and its expansion onto the same key: a
// multi-word name reduces to its initials when they form a plausible
// acronym, so "Occupational Safety and Health Administration" and "OSHA"
// collide even without KB enrichment.
func acronymKey(name string) string {
	trimmed := strings.TrimSpace(name)
	words := strings.Fields(trimmed)
	if len(words) == 1 && trimmed == strings.ToUpper(trimmed) && len(trimmed) >= 2 && len(trimmed) <= 6 {
		return strings.ToLower(trimmed)
	}
	if len(words) >= 3 {
		var initials strings.Builder
		for _, w := range words {
			r := rune(w[0])
			if r >= 'A' && r <= 'Z' {
				initials.WriteRune(r)
			}
		}
		if initials.Len() >= 2 {
			return strings.ToLower(initials.String())
		}
	}
	return strings.ToLower(trimmed)
}

// canonicalID derives a stable id from type and canonical value, so the same
// document always yields the same ids.
func canonicalID(typ model.EntityType, value string) string {
	sum := sha256.Sum256([]byte(string(typ) + "|" + strings.ToLower(value)))
	return "ent-" + hex.EncodeToString(sum[:4])
}

func contextSnippet(text string, span model.Span) string {
	start := span.Start - mentionContext
	if start < 0 {
		start = 0
	}
	end := span.End + mentionContext
	if end > len(text) {
		end = len(text)
	}
	return strings.Join(strings.Fields(text[start:end]), " ")
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
