package extract

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/docfuse/docfuse/internal/model"
)

// extractPersonsNLP is the optional higher-recall secondary pass, off by
// default. It runs a statistical NER model over the text and keeps only
// PERSON labels that the conservative pass missed. Recall goes up, precision
// guarantees stay with the primary pass.
func (e *Extractor) extractPersonsNLP(text string) []model.Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		e.log.WithError(err).Debug("nlp person pass failed, keeping conservative results")
		return nil
	}

	var out []model.Entity
	cursor := 0
	for _, ent := range doc.Entities() {
		if ent.Label != "PERSON" {
			continue
		}
		surface := normalizeWhitespace(ent.Text)
		if len(strings.Fields(surface)) < 2 {
			continue
		}
		// Map the entity back to a span in the original text. Searching
		// forward from the last match keeps repeated names at distinct spans.
		pos := strings.Index(text[cursor:], ent.Text)
		if pos < 0 {
			pos = strings.Index(text, ent.Text)
			if pos < 0 {
				continue
			}
			cursor = 0
		}
		start := cursor + pos
		end := start + len(ent.Text)
		cursor = end

		out = append(out, model.Entity{
			Text:       surface,
			Type:       model.EntityPerson,
			Span:       model.Span{Start: start, End: end},
			Confidence: 0.5,
		})
	}
	return out
}
