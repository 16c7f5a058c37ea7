package normalize

import (
	"strings"
	"testing"

	"github.com/docfuse/docfuse/internal/model"
)

func TestCanonicalize_MergesAcronymAndExpansion(t *testing.T) {
	text := "The Occupational Safety and Health Administration enforces standards. OSHA inspects workplaces."
	full := "Occupational Safety and Health Administration"
	fullStart := strings.Index(text, full)
	oshaStart := strings.Index(text, "OSHA ")

	entities := []model.Entity{
		{
			Text: full,
			Type: model.EntityOrg,
			Span: model.Span{Start: fullStart, End: fullStart + len(full)},
		},
		{
			Text: "OSHA",
			Type: model.EntityOrg,
			Span: model.Span{Start: oshaStart, End: oshaStart + len("OSHA")},
		},
	}

	canonicals, stats := Canonicalize(entities, text)

	if len(canonicals) != 1 {
		t.Fatalf("expected acronym and expansion to merge into 1 canonical, got %d", len(canonicals))
	}
	c := canonicals[0]
	if c.Value != full {
		t.Errorf("canonical display should be the most complete form, got %q", c.Value)
	}
	if len(c.Aliases) != 2 {
		t.Errorf("expected 2 aliases, got %v", c.Aliases)
	}
	if c.Count != 2 || len(c.Mentions) != 2 {
		t.Errorf("expected 2 mentions, got count=%d mentions=%d", c.Count, len(c.Mentions))
	}
	if stats.RawCount != 2 || stats.CanonicalCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ReductionPercent != 50 {
		t.Errorf("expected 50%% reduction, got %.1f", stats.ReductionPercent)
	}
}

func TestCanonicalize_GovernmentFormalNameWins(t *testing.T) {
	gov := &model.GovernmentInfo{
		FormalName:   "Occupational Safety and Health Administration",
		Abbreviation: "OSHA",
		Website:      "https://www.osha.gov",
	}
	entities := []model.Entity{
		{Text: "OSHA", Type: model.EntityOrg, Span: model.Span{Start: 0, End: 4}, IsGovernmentEntity: true, Government: gov},
	}

	canonicals, _ := Canonicalize(entities, "OSHA enforces standards.")

	if len(canonicals) != 1 {
		t.Fatalf("expected 1 canonical, got %d", len(canonicals))
	}
	if canonicals[0].Value != gov.FormalName {
		t.Errorf("KB formal name should become the display form, got %q", canonicals[0].Value)
	}
	if canonicals[0].Government == nil {
		t.Error("government info should ride on the canonical entity")
	}
}

func TestCanonicalize_MoneyByValue(t *testing.T) {
	entities := []model.Entity{
		{Text: "$2,500", Type: model.EntityMoney, Span: model.Span{Start: 0, End: 6}},
		{Text: "$2500", Type: model.EntityMoney, Span: model.Span{Start: 20, End: 25}},
		{Text: "$300", Type: model.EntityMoney, Span: model.Span{Start: 40, End: 44}},
	}
	text := strings.Repeat(" ", 50)

	canonicals, stats := Canonicalize(entities, text)

	if len(canonicals) != 2 {
		t.Fatalf("equal amounts should merge: expected 2 canonicals, got %d", len(canonicals))
	}
	if stats.RawCount != 3 || stats.CanonicalCount != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCanonicalize_DeterministicIDs(t *testing.T) {
	entities := []model.Entity{
		{Text: "Texas", Type: model.EntityGPE, Span: model.Span{Start: 0, End: 5}},
	}

	first, _ := Canonicalize(entities, "Texas")
	second, _ := Canonicalize(entities, "Texas")

	if first[0].ID != second[0].ID {
		t.Errorf("ids must be deterministic: %s vs %s", first[0].ID, second[0].ID)
	}
	if !strings.HasPrefix(first[0].ID, "ent-") {
		t.Errorf("unexpected id shape: %s", first[0].ID)
	}
}

func TestCanonicalize_Empty(t *testing.T) {
	canonicals, stats := Canonicalize(nil, "")
	if len(canonicals) != 0 {
		t.Errorf("expected no canonicals, got %d", len(canonicals))
	}
	if stats.RawCount != 0 || stats.ReductionPercent != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRewrite_ReplacesMentionsRightmostFirst(t *testing.T) {
	text := "OSHA enforces. OSHA inspects."
	canonicals := []model.CanonicalEntity{
		{
			ID:    "ent-abcd1234",
			Type:  model.EntityOrg,
			Value: "Occupational Safety and Health Administration",
			Mentions: []model.Mention{
				{Text: "OSHA", Span: model.Span{Start: 0, End: 4}},
				{Text: "OSHA", Span: model.Span{Start: 15, End: 19}},
			},
		},
	}

	out, edits := Rewrite(text, canonicals)

	if edits != 2 {
		t.Fatalf("expected 2 edits, got %d", edits)
	}
	want := "[[Occupational Safety and Health Administration|ent-abcd1234]] enforces. " +
		"[[Occupational Safety and Health Administration|ent-abcd1234]] inspects."
	if out != want {
		t.Errorf("unexpected rewrite:\n got: %s\nwant: %s", out, want)
	}
}

func TestRewrite_PreservesNonEntityBytes(t *testing.T) {
	text := "prefix MIDDLE suffix"
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-1111",
			Value:    "Middle",
			Mentions: []model.Mention{{Text: "MIDDLE", Span: model.Span{Start: 7, End: 13}}},
		},
	}

	out, _ := Rewrite(text, canonicals)

	if !strings.HasPrefix(out, "prefix ") || !strings.HasSuffix(out, " suffix") {
		t.Errorf("bytes outside spans must be untouched: %q", out)
	}
}

func TestRewrite_OverlapKeepsLongestSpan(t *testing.T) {
	text := "New York City is large."
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-aaaa",
			Value:    "New York City",
			Mentions: []model.Mention{{Text: "New York City", Span: model.Span{Start: 0, End: 13}}},
		},
		{
			ID:       "ent-bbbb",
			Value:    "New York",
			Mentions: []model.Mention{{Text: "New York", Span: model.Span{Start: 0, End: 8}}},
		},
	}

	out, edits := Rewrite(text, canonicals)

	if edits != 1 {
		t.Fatalf("overlapping mentions should collapse to 1 edit, got %d", edits)
	}
	if !strings.HasPrefix(out, "[[New York City|ent-aaaa]]") {
		t.Errorf("longest span should win: %q", out)
	}
}

func TestRewrite_InvalidSpanSkipped(t *testing.T) {
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-cccc",
			Value:    "Ghost",
			Mentions: []model.Mention{{Text: "Ghost", Span: model.Span{Start: 50, End: 60}}},
		},
	}

	out, edits := Rewrite("short", canonicals)
	if edits != 0 || out != "short" {
		t.Errorf("out-of-range spans must be ignored: %q (%d edits)", out, edits)
	}
}
