package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("/data/reports/handbook.pdf", 0)

	if doc.Stem != "handbook" {
		t.Errorf("expected stem 'handbook', got %q", doc.Stem)
	}
	if doc.State != StateCreated {
		t.Errorf("expected state created, got %s", doc.State)
	}
	if !doc.Success {
		t.Error("new document should start successful")
	}
}

func TestDocument_StateProgression(t *testing.T) {
	doc := NewDocument("a.txt", 0)

	if err := doc.SetConversionData("# Body\n", &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if doc.State != StateConverted {
		t.Errorf("expected converted, got %s", doc.State)
	}

	if err := doc.AddClassificationData(&Classification{PrimaryDomain: "safety"}); err != nil {
		t.Fatalf("classification: %v", err)
	}
	if doc.State != StateClassified {
		t.Errorf("expected classified, got %s", doc.State)
	}

	if err := doc.AddEnrichmentData(&EnrichmentSection{}); err != nil {
		t.Fatalf("enrichment: %v", err)
	}
	if err := doc.AddNormalizationData(&NormalizationSection{}, ""); err != nil {
		t.Fatalf("normalization: %v", err)
	}
	if err := doc.SetSemanticData(&SemanticData{}); err != nil {
		t.Fatalf("semantic: %v", err)
	}
	if doc.State != StateExtracted {
		t.Errorf("expected extracted, got %s", doc.State)
	}
}

func TestDocument_NilSectionRejected(t *testing.T) {
	doc := NewDocument("a.txt", 0)
	if err := doc.AddClassificationData(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDocument_MemoryCeiling(t *testing.T) {
	doc := NewDocument("a.txt", 500)

	if err := doc.SetConversionData("short body", &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatalf("small body should fit: %v", err)
	}

	big := strings.Repeat("x", 1000)
	err := doc.AddNormalizationData(&NormalizationSection{Rewritten: true}, big)
	if !errors.Is(err, ErrMemoryCeiling) {
		t.Fatalf("expected ErrMemoryCeiling, got %v", err)
	}

	// Failure is terminal and the offending mutation was discarded.
	if !doc.Failed() {
		t.Error("document should be failed after ceiling overflow")
	}
	if doc.Markdown != "short body" {
		t.Errorf("prior markdown should survive, got %q", doc.Markdown)
	}
	if doc.Sections.Conversion == nil {
		t.Error("prior sections should survive the failure")
	}

	// Further stages are refused.
	if err := doc.SetSemanticData(&SemanticData{}); !errors.Is(err, ErrDocumentFailed) {
		t.Errorf("expected ErrDocumentFailed, got %v", err)
	}
}

func TestAttachCanonicalEntities_CeilingChecked(t *testing.T) {
	doc := NewDocument("a.txt", 600)
	if err := doc.SetConversionData("short body", &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatalf("small body should fit: %v", err)
	}

	big := []CanonicalEntity{{
		ID:    "ent-abcd1234",
		Type:  EntityOrg,
		Value: strings.Repeat("x", 1000),
	}}
	if err := doc.AttachCanonicalEntities(big); !errors.Is(err, ErrMemoryCeiling) {
		t.Fatalf("expected ErrMemoryCeiling, got %v", err)
	}
	if !doc.Failed() {
		t.Error("document should be failed after ceiling overflow")
	}
	if doc.Semantic != nil {
		t.Error("rejected payload must not be committed")
	}
	if doc.Markdown != "short body" {
		t.Errorf("prior markdown should survive, got %q", doc.Markdown)
	}
}

func TestDocument_CeilingDisabled(t *testing.T) {
	doc := NewDocument("a.txt", 0)
	big := strings.Repeat("x", 1<<20)
	if err := doc.SetConversionData(big, &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatalf("zero ceiling should disable the check: %v", err)
	}
}

func TestGenerateFinalMarkdown(t *testing.T) {
	doc := NewDocument("in/policy.txt", 0)
	if err := doc.SetConversionData("# Policy\n\nBody text.\n", &ConversionSection{
		Engine:      "text",
		SourcePath:  "in/policy.txt",
		Pages:       1,
		ConvertedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := doc.GenerateFinalMarkdown()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") {
		t.Error("markdown should start with a metadata header")
	}
	if !strings.Contains(out, "source: in/policy.txt") {
		t.Error("header should record the source path")
	}
	if !strings.Contains(out, "# Policy") {
		t.Error("body should follow the header")
	}

	// Idempotent for an unmutated document.
	again, err := doc.GenerateFinalMarkdown()
	if err != nil {
		t.Fatal(err)
	}
	if out != again {
		t.Error("repeated generation should be byte-identical")
	}
}

func TestGenerateFinalMarkdown_StripsControlChars(t *testing.T) {
	doc := NewDocument("a.txt", 0)
	if err := doc.SetConversionData("body\x00with\x07junk\tkept\n", &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatal(err)
	}
	out, err := doc.GenerateFinalMarkdown()
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(out, "\x00\x07") {
		t.Error("control characters should be stripped")
	}
	if !strings.Contains(out, "junk\tkept") {
		t.Error("tabs should be preserved")
	}
}

func TestGenerateKnowledgeJSON_NoFacts(t *testing.T) {
	doc := NewDocument("a.txt", 0)
	data, err := doc.GenerateKnowledgeJSON()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data != nil {
		t.Error("document without facts should produce no sidecar")
	}
}

func TestGenerateKnowledgeJSON_WithFacts(t *testing.T) {
	doc := NewDocument("a.txt", 0)
	if err := doc.SetConversionData("body", &ConversionSection{Engine: "text", Pages: 1}); err != nil {
		t.Fatal(err)
	}
	doc.Semantic = &SemanticData{
		Facts: []Fact{{
			ID:        "fact-1",
			Subject:   "Employers",
			Predicate: PredicateMustComplyWith,
			Object:    "29 CFR 1910.132",
			Source:    "entity:ent-1",
		}},
		Summary: FactSummary{TotalFacts: 1},
	}

	data, err := doc.GenerateKnowledgeJSON()
	if err != nil {
		t.Fatal(err)
	}
	if data == nil {
		t.Fatal("expected sidecar content")
	}
	if !strings.Contains(string(data), "must_comply_with") {
		t.Error("sidecar should carry the fact predicate")
	}
}

func TestReport_Add(t *testing.T) {
	r := &Report{}
	r.Add(FileOutcome{Path: "a", Status: OutcomeWritten})
	r.Add(FileOutcome{Path: "b", Status: OutcomeFailed, Reason: "boom"})
	r.Add(FileOutcome{Path: "c", Status: OutcomeDropped})

	if r.Processed != 1 || r.Failed != 1 || r.Dropped != 1 {
		t.Errorf("counters wrong: processed=%d failed=%d dropped=%d", r.Processed, r.Failed, r.Dropped)
	}
	if len(r.Files) != 3 {
		t.Errorf("expected 3 outcomes, got %d", len(r.Files))
	}
}
