package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docfuse/docfuse/internal/model"
)

// Rewrite replaces every canonical mention in the document body with a
// canonical-reference marker of the form [[Display Name|ent-xxxxxxxx]].
// Edits apply rightmost-first so earlier spans stay valid; overlapping
// mentions keep the longest span and drop the rest. Bytes outside entity
// spans are never touched. Returns the rewritten text and the number of
// replacements applied.
func Rewrite(text string, canonicals []model.CanonicalEntity) (string, int) {
	type edit struct {
		span        model.Span
		replacement string
	}

	var edits []edit
	for _, c := range canonicals {
		marker := fmt.Sprintf("[[%s|%s]]", c.Value, c.ID)
		for _, m := range c.Mentions {
			if m.Span.Start < 0 || m.Span.End > len(text) || m.Span.Start >= m.Span.End {
				continue
			}
			edits = append(edits, edit{span: m.Span, replacement: marker})
		}
	}

	sort.Slice(edits, func(i, j int) bool {
		if edits[i].span.Start != edits[j].span.Start {
			return edits[i].span.Start < edits[j].span.Start
		}
		return edits[i].span.End > edits[j].span.End
	})

	// Drop edits that overlap an earlier, longer one.
	kept := edits[:0]
	lastEnd := -1
	for _, e := range edits {
		if e.span.Start < lastEnd {
			continue
		}
		kept = append(kept, e)
		lastEnd = e.span.End
	}

	var b strings.Builder
	b.Grow(len(text) + len(kept)*16)
	cursor := 0
	for _, e := range kept {
		b.WriteString(text[cursor:e.span.Start])
		b.WriteString(e.replacement)
		cursor = e.span.End
	}
	b.WriteString(text[cursor:])
	return b.String(), len(kept)
}
