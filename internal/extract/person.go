package extract

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/docfuse/docfuse/internal/model"
)

// Person extraction is deliberately conservative: a bare two-capitalized-word
// sequence is not enough evidence on its own. A candidate needs a
// corroborating signal — an honorific, a name-corpus hit, a role noun after
// the name, or a nearby reporting verb — because unconstrained capitalized
// bigrams flag document headers, acronyms and place names.

var personCandidate = regexp.MustCompile(`\b(?:(Dr|Mr|Mrs|Ms|Miss|Prof|Professor|Rev|Hon|Sen|Rep|Gov|Capt|Col|Sgt|Lt)\.?\s+)?([A-Z][a-z]+(?:\s+[A-Z]\.)?(?:\s+[A-Z][a-z]+){1,2})\b`)

var (
	roleNouns = mapset.NewSet[string](
		"director", "manager", "supervisor", "officer", "president",
		"chairman", "chairwoman", "secretary", "administrator", "inspector",
		"coordinator", "engineer", "analyst", "attorney", "spokesperson",
		"chief", "ceo", "cfo", "employee", "chair",
	)

	reportingVerbs = mapset.NewSet[string](
		"said", "stated", "announced", "reported", "told", "explained",
		"noted", "added", "confirmed", "testified", "wrote", "argued",
	)
)

// contextWindow is how many bytes around a candidate are inspected for role
// nouns and reporting verbs.
const contextWindow = 60

func (e *Extractor) extractPersons(text string) []model.Entity {
	var out []model.Entity
	for _, m := range personCandidate.FindAllStringSubmatchIndex(text, -1) {
		fullStart, fullEnd := m[0], m[1]
		hasHonorific := m[2] >= 0
		nameStart, nameEnd := m[4], m[5]
		name := text[nameStart:nameEnd]

		if !hasHonorific && !e.corroborated(text, name, fullEnd) {
			continue
		}

		out = append(out, model.Entity{
			Text: normalizeWhitespace(text[fullStart:fullEnd]),
			Type: model.EntityPerson,
			Span: model.Span{Start: fullStart, End: fullEnd},
		})
	}

	if e.nlpPersons {
		out = append(out, e.extractPersonsNLP(text)...)
	}
	return out
}

// corroborated checks the corpus and contextual signals for a candidate
// without an honorific.
func (e *Extractor) corroborated(text, name string, end int) bool {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return false
	}
	if e.names.HasFirstName(tokens[0]) || e.names.HasLastName(tokens[len(tokens)-1]) {
		return true
	}

	// Look just past the name for a role noun ("Jane Smith, director of...")
	// or a reporting verb ("Jane Smith said...").
	windowEnd := end + contextWindow
	if windowEnd > len(text) {
		windowEnd = len(text)
	}
	after := strings.Fields(strings.ToLower(text[end:windowEnd]))
	for i, tok := range after {
		if i > 3 {
			break
		}
		tok = strings.Trim(tok, ",.;:()")
		if roleNouns.Contains(tok) || reportingVerbs.Contains(tok) {
			return true
		}
	}
	return false
}
