// Package normalize converts raw extracted entities into canonical entities:
// structured values, merged aliases, and an optional in-place rewrite of the
// document body with canonical-reference markers.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docfuse/docfuse/internal/model"
)

// Normalization failures are data, not exceptions: every branch below
// returns a NormalizedValue, with Error set and the surface text preserved
// when the value could not be canonicalized.

var (
	moneyAmount  = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	percentValue = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

var currencyWords = map[string]string{
	"dollars": "USD", "usd": "USD",
	"euro": "EUR", "euros": "EUR", "eur": "EUR",
	"gbp": "GBP", "pounds sterling": "GBP",
}

var magnitudes = map[string]float64{
	"k": 1e3, "thousand": 1e3,
	"m": 1e6, "million": 1e6,
	"b": 1e9, "billion": 1e9,
}

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
}

// Value normalizes one entity's surface into its structured canonical form.
// It never fails loudly: unknown types and unparsable values come back as
// error-flagged passthroughs.
func Value(e model.Entity) model.NormalizedValue {
	switch e.Type {
	case model.EntityMoney:
		return normalizeMoney(e.Text)
	case model.EntityDate:
		return normalizeDate(e.Text)
	case model.EntityMeasurement:
		return normalizeMeasurement(e)
	case model.EntityPercent:
		return normalizePercent(e.Text)
	case model.EntityOrg, model.EntityPerson, model.EntityLocation, model.EntityGPE,
		model.EntityTime, model.EntityPhone, model.EntityURL, model.EntityRegulation,
		model.EntitySafetyEquipment, model.EntityHazard, model.EntityInjury,
		model.EntityStandardsBody, model.EntityAgency, model.EntityPenalty,
		model.EntityFinInstrument, model.EntityContractTerm, model.EntityMedicalTerm:
		return model.NormalizedValue{
			Kind:       "text",
			Text:       e.Text,
			Normalized: true,
		}
	default:
		return model.NormalizedValue{
			Kind:  "text",
			Text:  e.Text,
			Error: "unregistered entity type: " + string(e.Type),
		}
	}
}

func normalizeMoney(surface string) model.NormalizedValue {
	nv := model.NormalizedValue{Kind: "money", Text: surface}

	lower := strings.ToLower(surface)
	currency := ""
	for sym, code := range currencySymbols {
		if strings.Contains(surface, sym) {
			currency = code
			break
		}
	}
	if currency == "" {
		for word, code := range currencyWords {
			if strings.Contains(lower, word) {
				currency = code
				break
			}
		}
	}
	if currency == "" {
		currency = "USD"
	}

	match := moneyAmount.FindString(surface)
	if match == "" {
		nv.Error = "no numeric amount found"
		return nv
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		nv.Error = "unparsable amount: " + match
		return nv
	}

	for suffix, factor := range magnitudes {
		if hasMagnitude(lower, suffix) {
			amount *= factor
			break
		}
	}

	nv.Amount = amount
	nv.Currency = currency
	nv.Normalized = true
	return nv
}

// hasMagnitude checks for a magnitude word or a single-letter suffix
// directly after the amount ("$2.5M", "3 million dollars").
func hasMagnitude(lower, suffix string) bool {
	if len(suffix) > 1 {
		return regexp.MustCompile(`\b` + suffix + `\b`).MatchString(lower)
	}
	return regexp.MustCompile(`\d\s*` + suffix + `\b`).MatchString(lower)
}

func normalizeDate(surface string) model.NormalizedValue {
	nv := model.NormalizedValue{Kind: "date", Text: surface}

	cleaned := strings.TrimSpace(surface)
	// Strip ordinal suffixes ("15th" -> "15").
	cleaned = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`).ReplaceAllString(cleaned, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			nv.Date = t.Format("2006-01-02")
			nv.Normalized = true
			return nv
		}
	}

	// Ambiguous formats keep the surface as the canonical value with the
	// non-normalized flag.
	return nv
}

func normalizeMeasurement(e model.Entity) model.NormalizedValue {
	nv := model.NormalizedValue{Kind: "measurement", Text: e.Text}
	if e.Measurement == nil {
		nv.Error = "no canonical unit recorded at extraction"
		return nv
	}
	nv.Value = e.Measurement.Value
	nv.Unit = e.Measurement.Unit
	nv.Category = e.Measurement.Category
	nv.Normalized = true
	return nv
}

func normalizePercent(surface string) model.NormalizedValue {
	nv := model.NormalizedValue{Kind: "percent", Text: surface}
	match := percentValue.FindString(surface)
	if match == "" {
		nv.Error = "no numeric value found"
		return nv
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		nv.Error = "unparsable value: " + match
		return nv
	}
	nv.Value = value
	nv.Unit = "percent"
	nv.Normalized = true
	return nv
}
