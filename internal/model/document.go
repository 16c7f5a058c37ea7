package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the per-document pipeline state.
type State string

const (
	StateCreated    State = "created"
	StateConverted  State = "converted"
	StateClassified State = "classified"
	StateEnriched   State = "enriched"
	StateNormalized State = "normalized"
	StateExtracted  State = "extracted"
	StateWritten    State = "written"
	StateFailed     State = "failed"
)

// ConversionSection records the outcome of document conversion.
type ConversionSection struct {
	Engine      string      `json:"engine" yaml:"engine"`
	SourcePath  string      `json:"source_path" yaml:"source_path"`
	Pages       int         `json:"pages" yaml:"pages"`
	ConvertedAt time.Time   `json:"converted_at" yaml:"converted_at"`
	Flags       ScreenFlags `json:"flags" yaml:"flags"`
}

// EnrichmentSection records entity extraction output. The raw entity list is
// internal state for normalization and is stripped from the markdown header;
// only the per-kind counts are rendered.
type EnrichmentSection struct {
	Skipped           bool           `json:"skipped" yaml:"skipped"`
	Reason            string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Entities          []Entity       `json:"entities,omitempty" yaml:"-"`
	Counts            map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	GovernmentMatches int            `json:"government_matches" yaml:"government_matches"`
	DeepKinds         []string       `json:"deep_kinds,omitempty" yaml:"deep_kinds,omitempty"`
}

// NormalizationSection records the canonicalization outcome.
type NormalizationSection struct {
	Skipped          bool    `json:"skipped" yaml:"skipped"`
	Reason           string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	RawCount         int     `json:"raw_count" yaml:"raw_count"`
	CanonicalCount   int     `json:"canonical_count" yaml:"canonical_count"`
	ReductionPercent float64 `json:"entity_reduction_percent" yaml:"entity_reduction_percent"`
	Rewritten        bool    `json:"rewritten" yaml:"rewritten"`
}

// Sections is the typed metadata map attached to a document. A nil section
// means the stage never reported; a section with Skipped=true means the stage
// ran its gate and deliberately did no work. The distinction is load-bearing
// for downstream readers.
type Sections struct {
	Conversion     *ConversionSection    `json:"conversion,omitempty" yaml:"conversion,omitempty"`
	Classification *Classification       `json:"classification,omitempty" yaml:"classification,omitempty"`
	Enrichment     *EnrichmentSection    `json:"enrichment,omitempty" yaml:"enrichment,omitempty"`
	Normalization  *NormalizationSection `json:"normalization,omitempty" yaml:"normalization,omitempty"`
}

// SemanticData holds fact extraction output. Facts and canonical entities go
// to the JSON sidecar, not the markdown header.
type SemanticData struct {
	Skipped     bool              `json:"skipped" yaml:"skipped"`
	Reason      string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Facts       []Fact            `json:"facts,omitempty" yaml:"-"`
	Entities    []CanonicalEntity `json:"entities,omitempty" yaml:"-"`
	Summary     FactSummary       `json:"summary" yaml:"summary"`
	ExtractedAt time.Time         `json:"extracted_at" yaml:"-"`
}

// Document holds all per-file processing state in memory. It is exclusively
// owned by one pipeline run; stages mutate it additively and every mutation
// re-checks the memory ceiling against the full serialized footprint.
type Document struct {
	SourcePath string
	Stem       string
	Markdown   string
	Pages      int
	Sections   Sections
	Semantic   *SemanticData
	Timings    map[string]time.Duration
	State      State
	Success    bool
	Error      string

	ceiling int64
}

// NewDocument creates a document for the given source path with the given
// per-document memory ceiling in bytes. A ceiling of zero disables the check.
func NewDocument(sourcePath string, ceiling int64) *Document {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return &Document{
		SourcePath: sourcePath,
		Stem:       stem,
		Timings:    make(map[string]time.Duration),
		State:      StateCreated,
		Success:    true,
		ceiling:    ceiling,
	}
}

// Failed reports whether the document reached the terminal FAILED state.
func (d *Document) Failed() bool {
	return d.State == StateFailed
}

// MarkFailed transitions the document to the terminal FAILED state. Sections
// attached before the failure are preserved for diagnostics.
func (d *Document) MarkFailed(reason string) {
	d.State = StateFailed
	d.Success = false
	d.Error = reason
}

// AddTiming records the wall time spent in one stage.
func (d *Document) AddTiming(stage string, elapsed time.Duration) {
	d.Timings[stage] = elapsed
}

// MemoryFootprint returns the current serialized size of the document:
// markdown bytes plus the string forms of the metadata sections and the
// semantic data. Recomputed fully on demand, never tracked incrementally.
func (d *Document) MemoryFootprint() int64 {
	return footprint(d.Markdown, d.Sections, d.Semantic)
}

func footprint(markdown string, sections Sections, semantic *SemanticData) int64 {
	total := int64(len(markdown))
	if b, err := json.Marshal(sections); err == nil {
		total += int64(len(b))
	}
	if semantic != nil {
		if b, err := json.Marshal(semantic); err == nil {
			total += int64(len(b))
		}
	}
	return total
}

// checkCeiling verifies a prospective mutation against the ceiling before it
// is committed. On overflow the document fails terminally and the offending
// mutation is discarded; prior state stays intact for diagnostics.
func (d *Document) checkCeiling(markdown string, sections Sections, semantic *SemanticData) error {
	if d.ceiling <= 0 {
		return nil
	}
	if size := footprint(markdown, sections, semantic); size > d.ceiling {
		d.MarkFailed(fmt.Sprintf("memory ceiling exceeded: %d > %d bytes", size, d.ceiling))
		return ErrMemoryCeiling
	}
	return nil
}

// SetConversionData sets the initial markdown body and conversion metadata.
func (d *Document) SetConversionData(markdown string, section *ConversionSection) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	if section == nil {
		return ErrInvalidInput
	}
	next := d.Sections
	next.Conversion = section
	if err := d.checkCeiling(markdown, next, d.Semantic); err != nil {
		return err
	}
	d.Markdown = markdown
	d.Pages = section.Pages
	d.Sections = next
	d.State = StateConverted
	return nil
}

// AddClassificationData attaches the classification section.
func (d *Document) AddClassificationData(c *Classification) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	if c == nil {
		return ErrInvalidInput
	}
	next := d.Sections
	next.Classification = c
	if err := d.checkCeiling(d.Markdown, next, d.Semantic); err != nil {
		return err
	}
	d.Sections = next
	d.State = StateClassified
	return nil
}

// AddEnrichmentData attaches the entity extraction section.
func (d *Document) AddEnrichmentData(e *EnrichmentSection) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	if e == nil {
		return ErrInvalidInput
	}
	next := d.Sections
	next.Enrichment = e
	if err := d.checkCeiling(d.Markdown, next, d.Semantic); err != nil {
		return err
	}
	d.Sections = next
	d.State = StateEnriched
	return nil
}

// AddNormalizationData attaches the normalization section and optionally
// replaces the markdown body with the canonical-marker rewrite.
func (d *Document) AddNormalizationData(n *NormalizationSection, rewritten string) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	if n == nil {
		return ErrInvalidInput
	}
	markdown := d.Markdown
	if n.Rewritten && rewritten != "" {
		markdown = rewritten
	}
	next := d.Sections
	next.Normalization = n
	if err := d.checkCeiling(markdown, next, d.Semantic); err != nil {
		return err
	}
	d.Markdown = markdown
	d.Sections = next
	d.State = StateNormalized
	return nil
}

// AttachCanonicalEntities stores canonical entities on the semantic payload
// ahead of fact extraction. The document state is unchanged because fact
// extraction has not run yet.
func (d *Document) AttachCanonicalEntities(entities []CanonicalEntity) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	next := &SemanticData{Entities: entities}
	if err := d.checkCeiling(d.Markdown, d.Sections, next); err != nil {
		return err
	}
	d.Semantic = next
	return nil
}

// SetSemanticData stores the fact extraction output.
func (d *Document) SetSemanticData(s *SemanticData) error {
	if d.Failed() {
		return ErrDocumentFailed
	}
	if s == nil {
		return ErrInvalidInput
	}
	if err := d.checkCeiling(d.Markdown, d.Sections, s); err != nil {
		return err
	}
	d.Semantic = s
	d.State = StateExtracted
	return nil
}

// markdownHeader is the view of a document rendered as the metadata header of
// the final markdown file. Internal-only payloads (raw entities, raw facts)
// are excluded via yaml tags on their sections.
type markdownHeader struct {
	Source   string        `yaml:"source"`
	Pages    int           `yaml:"pages"`
	Success  bool          `yaml:"success"`
	Error    string        `yaml:"error,omitempty"`
	Sections Sections      `yaml:"sections"`
	Semantic *SemanticData `yaml:"semantic,omitempty"`
}

// GenerateFinalMarkdown produces the on-disk representation: a YAML metadata
// header between "---" delimiters followed by the body. Idempotent for an
// unmutated document. Control characters other than newline and tab are
// stripped.
func (d *Document) GenerateFinalMarkdown() (string, error) {
	header := markdownHeader{
		Source:   d.SourcePath,
		Pages:    d.Pages,
		Success:  d.Success,
		Error:    d.Error,
		Sections: d.Sections,
		Semantic: d.Semantic,
	}
	meta, err := yaml.Marshal(&header)
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(d.Markdown)
	if !strings.HasSuffix(d.Markdown, "\n") {
		b.WriteString("\n")
	}
	return sanitize(b.String()), nil
}

// KnowledgeDocument is the JSON sidecar schema.
type KnowledgeDocument struct {
	SourceInfo         SourceInfo        `json:"source_info"`
	EntitySummary      map[string]int    `json:"entity_summary"`
	SemanticFacts      []Fact            `json:"semantic_facts"`
	NormalizedEntities []CanonicalEntity `json:"normalized_entities"`
	SemanticSummary    FactSummary       `json:"semantic_summary"`
}

// SourceInfo identifies the origin of a knowledge document.
type SourceInfo struct {
	OriginalPath string    `json:"original_path"`
	ExtractedAt  time.Time `json:"extracted_at"`
	Engine       string    `json:"engine"`
}

// GenerateKnowledgeJSON produces the sidecar fact document, or nil when no
// semantic facts exist so the caller can skip the write entirely.
func (d *Document) GenerateKnowledgeJSON() ([]byte, error) {
	if d.Semantic == nil || len(d.Semantic.Facts) == 0 {
		return nil, nil
	}
	engine := ""
	if d.Sections.Conversion != nil {
		engine = d.Sections.Conversion.Engine
	}
	summary := make(map[string]int)
	if d.Sections.Enrichment != nil {
		summary["raw_global"] = 0
		summary["raw_domain"] = 0
		for _, e := range d.Sections.Enrichment.Entities {
			if e.Scope == ScopeDomain {
				summary["raw_domain"]++
			} else {
				summary["raw_global"]++
			}
		}
	}
	summary["canonical"] = len(d.Semantic.Entities)

	doc := KnowledgeDocument{
		SourceInfo: SourceInfo{
			OriginalPath: d.SourcePath,
			ExtractedAt:  d.Semantic.ExtractedAt,
			Engine:       engine,
		},
		EntitySummary:      summary,
		SemanticFacts:      d.Semantic.Facts,
		NormalizedEntities: d.Semantic.Entities,
		SemanticSummary:    d.Semantic.Summary,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// sanitize strips NUL bytes and non-printable control characters other than
// newline and tab.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
