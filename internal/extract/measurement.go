package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/docfuse/docfuse/internal/model"
	"github.com/docfuse/docfuse/internal/refdata"
)

// buildUnitRegex compiles one alternation over every unit alias in the
// reference table. Longer aliases come first so "mph" wins over "m".
func buildUnitRegex(units map[string]refdata.Unit) *regexp.Regexp {
	aliases := make([]string, 0, len(units))
	for alias := range units {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	for i, a := range aliases {
		aliases[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(` + strings.Join(aliases, "|") + `)\b`)
}

// extractMeasurements finds value+unit pairs and attaches the canonical
// unit and category required by the normalizer. The original surface text is
// preserved on the entity.
func (e *Extractor) extractMeasurements(text string) []model.Entity {
	var out []model.Entity
	for _, m := range e.unitRegex.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		valueText := text[m[2]:m[3]]
		alias := strings.ToLower(text[m[4]:m[5]])

		unit, ok := e.units[alias]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(valueText, 64)
		if err != nil {
			continue
		}

		out = append(out, model.Entity{
			Text: normalizeWhitespace(text[start:end]),
			Type: model.EntityMeasurement,
			Span: model.Span{Start: start, End: end},
			Measurement: &model.Measurement{
				Value:    value,
				Unit:     unit.Canonical,
				Category: unit.Category,
			},
		})
	}
	return out
}
