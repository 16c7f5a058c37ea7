// Package pipeline orchestrates the per-document processing stages: convert,
// classify, enrich, normalize, extract facts, write. Each stage mutates the
// document additively; the first failure is terminal and everything recorded
// up to that point survives into the failure output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/cache"
	"github.com/docfuse/docfuse/internal/classify"
	"github.com/docfuse/docfuse/internal/convert"
	"github.com/docfuse/docfuse/internal/extract"
	"github.com/docfuse/docfuse/internal/facts"
	"github.com/docfuse/docfuse/internal/model"
	"github.com/docfuse/docfuse/internal/normalize"
	"github.com/docfuse/docfuse/internal/refdata"
)

// Pipeline runs the complete processing sequence for one document at a time.
// It is safe for concurrent use from worker goroutines.
type Pipeline struct {
	registry   *convert.Registry
	classifier *classify.Classifier
	extractor  *extract.Extractor
	facter     *facts.Extractor
	writer     *Writer
	metrics    *Metrics
	config     *model.Config
	log        *logrus.Logger
}

// New creates a pipeline from the configuration. Reference data load errors
// surface here, before any document is accepted.
func New(cfg *model.Config, metrics *Metrics, log *logrus.Logger) (*Pipeline, error) {
	tables, err := refdata.Keywords()
	if err != nil {
		return nil, fmt.Errorf("load keyword tables: %w", err)
	}

	extractor, err := extract.New(cfg.Extract, log)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}

	var convCache cache.Cache
	if cfg.Convert.CacheEnabled {
		dir := cfg.Convert.CacheDir
		if dir == "" {
			dir = os.TempDir() + "/docfuse-cache"
		}
		convCache = cache.NewLayeredCache(cfg.Convert.CacheTTL, dir, cfg.Convert.CacheTTL)
	}

	return &Pipeline{
		registry:   convert.NewRegistry(cfg.Convert, convCache, log),
		classifier: classify.New(tables, cfg.Classify),
		extractor:  extractor,
		facter:     facts.New(log.WithField("component", "facts")),
		writer:     NewWriter(cfg.Output.Dir, log),
		metrics:    metrics,
		config:     cfg,
		log:        log,
	}, nil
}

// WriteReport persists the batch report and returns its path.
func (p *Pipeline) WriteReport(report *model.Report) (string, error) {
	return p.writer.WriteReport(report)
}

// Supported reports whether the pipeline can convert the file.
func (p *Pipeline) Supported(path string) bool {
	return p.registry.Supported(path)
}

// Process runs every stage for one source file and writes the outputs.
// The returned document always reflects a final state: WRITTEN on success,
// FAILED with a reason otherwise. The error return is only non-nil for
// infrastructure problems (output directory unwritable), never for
// per-document processing failures.
func (p *Pipeline) Process(ctx context.Context, path string) (*model.Document, error) {
	doc := model.NewDocument(path, p.config.Memory.DocumentLimitBytes())
	log := p.log.WithField("source", path)

	p.runStage(ctx, doc, "convert", func(ctx context.Context) error {
		return p.convertStage(ctx, doc)
	})
	p.runStage(ctx, doc, "classify", func(ctx context.Context) error {
		return p.classifyStage(doc)
	})
	p.runStage(ctx, doc, "enrich", func(ctx context.Context) error {
		return p.enrichStage(doc)
	})
	p.runStage(ctx, doc, "normalize", func(ctx context.Context) error {
		return p.normalizeStage(doc)
	})
	p.runStage(ctx, doc, "extract", func(ctx context.Context) error {
		return p.extractStage(doc)
	})

	if err := p.writer.WriteDocument(doc); err != nil {
		return doc, fmt.Errorf("write outputs: %w", err)
	}
	if !doc.Failed() {
		doc.State = model.StateWritten
	}

	p.metrics.Documents.WithLabelValues(outcomeLabel(doc)).Inc()
	log.WithFields(logrus.Fields{
		"state":   doc.State,
		"success": doc.Success,
	}).Info("document processed")
	return doc, nil
}

// runStage wraps one stage with timing, panic capture, and the failed-state
// gate. A panic inside a stage fails the document, never the worker.
func (p *Pipeline) runStage(ctx context.Context, doc *model.Document, name string, fn func(context.Context) error) {
	if doc.Failed() {
		return
	}

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		doc.AddTiming(name, elapsed)
		p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		if r := recover(); r != nil {
			doc.MarkFailed(fmt.Sprintf("%s stage panicked: %v", name, r))
			p.log.WithField("stage", name).Errorf("stage panic recovered: %v", r)
		}
	}()

	if err := fn(ctx); err != nil {
		if errors.Is(err, model.ErrMemoryCeiling) {
			p.metrics.CeilingOverruns.Inc()
		}
		if !doc.Failed() {
			doc.MarkFailed(fmt.Sprintf("%s: %v", name, err))
		}
		p.log.WithField("stage", name).WithError(err).Warn("stage failed")
	}
}

func (p *Pipeline) convertStage(ctx context.Context, doc *model.Document) error {
	var res *convert.Result
	if p.config.Stages.Convert {
		var err error
		res, err = p.registry.Convert(ctx, doc.SourcePath)
		if err != nil {
			return err
		}
	} else {
		// Conversion disabled: the file is taken as already-markdown.
		data, err := os.ReadFile(doc.SourcePath)
		if err != nil {
			return err
		}
		res = &convert.Result{Markdown: string(data), Pages: 1, Engine: "passthrough"}
	}

	return doc.SetConversionData(res.Markdown, &model.ConversionSection{
		Engine:      res.Engine,
		SourcePath:  doc.SourcePath,
		Pages:       res.Pages,
		ConvertedAt: time.Now().UTC(),
		Flags:       classify.Screen(res.Markdown),
	})
}

func (p *Pipeline) classifyStage(doc *model.Document) error {
	if !p.config.Stages.Classify {
		// Without classification everything downstream runs unconditionally,
		// minus the deep domain kinds that need a route.
		return doc.AddClassificationData(&model.Classification{
			Domains:       map[string]float64{model.DomainGeneral: 100},
			PrimaryDomain: model.DomainGeneral,
			Routing: model.Routing{
				SpecializationRoute: model.DomainGeneral,
				ProceedToEnrichment: true,
				ProceedToExtraction: true,
			},
		})
	}
	return doc.AddClassificationData(p.classifier.Classify(doc.Markdown))
}

func (p *Pipeline) enrichStage(doc *model.Document) error {
	routing := doc.Sections.Classification.Routing
	if !p.config.Stages.Enrich || !routing.ProceedToEnrichment {
		return doc.AddEnrichmentData(&model.EnrichmentSection{
			Skipped: true,
			Reason:  skipReason(doc, !p.config.Stages.Enrich),
		})
	}
	return doc.AddEnrichmentData(p.extractor.Extract(doc.Markdown, routing))
}

func (p *Pipeline) normalizeStage(doc *model.Document) error {
	enrichment := doc.Sections.Enrichment
	if !p.config.Stages.Normalize || enrichment.Skipped || len(enrichment.Entities) == 0 {
		reason := "stage disabled"
		if p.config.Stages.Normalize {
			reason = "no entities to normalize"
		}
		return doc.AddNormalizationData(&model.NormalizationSection{
			Skipped: true,
			Reason:  reason,
		}, "")
	}

	canonicals, stats := normalize.Canonicalize(enrichment.Entities, doc.Markdown)
	rewritten, edits := normalize.Rewrite(doc.Markdown, canonicals)

	section := &model.NormalizationSection{
		RawCount:         stats.RawCount,
		CanonicalCount:   stats.CanonicalCount,
		ReductionPercent: stats.ReductionPercent,
		Rewritten:        edits > 0,
	}
	if err := doc.AddNormalizationData(section, rewritten); err != nil {
		return err
	}
	// Canonical entities ride on the semantic payload for the fact stage and
	// the JSON sidecar; the attach is ceiling-checked like every mutation.
	return doc.AttachCanonicalEntities(canonicals)
}

func (p *Pipeline) extractStage(doc *model.Document) error {
	routing := doc.Sections.Classification.Routing
	if !p.config.Stages.Extract || !routing.ProceedToExtraction {
		skip := &model.SemanticData{
			Skipped:     true,
			Reason:      skipReason(doc, !p.config.Stages.Extract),
			ExtractedAt: time.Now().UTC(),
		}
		// Canonicals attached by normalization survive the skipped fact stage.
		if doc.Semantic != nil {
			skip.Entities = doc.Semantic.Entities
		}
		return doc.SetSemanticData(skip)
	}

	var canonicals []model.CanonicalEntity
	if doc.Semantic != nil {
		canonicals = doc.Semantic.Entities
	}
	factList, summary := p.facter.Extract(canonicals)
	p.metrics.FactsExtracted.Add(float64(len(factList)))

	return doc.SetSemanticData(&model.SemanticData{
		Facts:       factList,
		Entities:    canonicals,
		Summary:     summary,
		ExtractedAt: time.Now().UTC(),
	})
}

func skipReason(doc *model.Document, disabled bool) string {
	if disabled {
		return "stage disabled"
	}
	if c := doc.Sections.Classification; c != nil && c.EarlyTermination {
		return c.EarlyTerminationReason
	}
	return "routing decision"
}

func outcomeLabel(doc *model.Document) string {
	if doc.Failed() {
		return model.OutcomeFailed
	}
	return model.OutcomeWritten
}
