package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
)

// Processor runs the full pipeline for one source file.
type Processor interface {
	Process(ctx context.Context, path string) (*model.Document, error)
	Supported(path string) bool
}

// ProcessJob is one document's trip through the pool: rate-limit clearance,
// memory admission, then the pipeline.
type ProcessJob struct {
	Path      string
	Processor Processor
	Admission *Admission
	Limiter   *Limiter
}

// DocResult is the outcome of one process job.
type DocResult struct {
	Path     string
	Doc      *model.Document
	Err      error
	Duration time.Duration
}

// GetError returns the job error, if any.
func (r *DocResult) GetError() error {
	return r.Err
}

// Execute runs the job. The admission reservation is the source file size;
// the per-document ceiling inside the pipeline covers expansion beyond it.
func (j *ProcessJob) Execute(ctx context.Context) Result {
	start := time.Now()

	if err := j.Limiter.Wait(ctx); err != nil {
		return &DocResult{Path: j.Path, Err: err, Duration: time.Since(start)}
	}

	var reserved int64
	if info, err := os.Stat(j.Path); err == nil {
		reserved = info.Size()
	}
	if err := j.Admission.Acquire(ctx, reserved); err != nil {
		return &DocResult{Path: j.Path, Err: err, Duration: time.Since(start)}
	}
	defer j.Admission.Release(reserved)

	doc, err := j.Processor.Process(ctx, j.Path)
	return &DocResult{Path: j.Path, Doc: doc, Err: err, Duration: time.Since(start)}
}

// BatchProcessor fans a set of files out over the worker pool and collects a
// run report.
type BatchProcessor struct {
	processor Processor
	cfg       model.ConcurrencyConfig
	admission *Admission
	limiter   *Limiter
	log       *logrus.Logger
	onDrop    func()
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(processor Processor, cfg model.ConcurrencyConfig, memoryLimit int64, log *logrus.Logger) *BatchProcessor {
	return &BatchProcessor{
		processor: processor,
		cfg:       cfg,
		admission: NewAdmission(memoryLimit),
		limiter:   NewLimiter(cfg.FilesPerSecond, cfg.Burst),
		log:       log,
	}
}

// OnQueueDrop registers a callback invoked once per file dropped by queue
// backpressure, so callers can count drops in their own instrumentation.
func (b *BatchProcessor) OnQueueDrop(fn func()) {
	b.onDrop = fn
}

// ProcessPaths runs every file through the pipeline concurrently. Files
// rejected by queue backpressure are recorded as dropped; every input path
// appears exactly once in the report.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) *model.Report {
	report := &model.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	if len(paths) == 0 {
		report.FinishedAt = time.Now().UTC()
		return report
	}

	pool := NewPool(b.cfg.Workers, b.cfg.QueueSize)
	pool.Start()

	for _, path := range paths {
		job := &ProcessJob{
			Path:      path,
			Processor: b.processor,
			Admission: b.admission,
			Limiter:   b.limiter,
		}
		if err := pool.Submit(job, b.cfg.EnqueueTimeout); err != nil {
			if errors.Is(err, model.ErrQueueFull) {
				b.log.WithField("path", path).Warn("queue full, dropping file")
				if b.onDrop != nil {
					b.onDrop()
				}
				report.Add(model.FileOutcome{
					Path:   path,
					Status: model.OutcomeDropped,
					Reason: err.Error(),
				})
				continue
			}
			report.Add(model.FileOutcome{
				Path:   path,
				Status: model.OutcomeFailed,
				Reason: err.Error(),
			})
		}
	}

	for _, result := range pool.Wait() {
		report.Add(outcomeFrom(result.(*DocResult)))
	}
	report.FinishedAt = time.Now().UTC()
	return report
}

func outcomeFrom(r *DocResult) model.FileOutcome {
	outcome := model.FileOutcome{
		Path:     r.Path,
		Status:   model.OutcomeWritten,
		Duration: r.Duration,
	}
	if r.Err != nil {
		outcome.Status = model.OutcomeFailed
		outcome.Reason = r.Err.Error()
		return outcome
	}
	if r.Doc == nil {
		outcome.Status = model.OutcomeFailed
		outcome.Reason = "no document produced"
		return outcome
	}
	if r.Doc.Failed() {
		outcome.Status = model.OutcomeFailed
		outcome.Reason = r.Doc.Error
	}
	if c := r.Doc.Sections.Classification; c != nil {
		outcome.Domain = c.PrimaryDomain
	}
	if e := r.Doc.Sections.Enrichment; e != nil {
		outcome.Entities = len(e.Entities)
	}
	if s := r.Doc.Semantic; s != nil {
		outcome.Facts = len(s.Facts)
	}
	return outcome
}

// CollectFiles resolves a batch input into the list of files to process: a
// directory is walked recursively for supported files, a plain file is taken
// as a path-list file. Results are sorted for a stable processing order.
func CollectFiles(input string, processor Processor) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return ReadPathsFromFile(input)
	}

	var paths []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !processor.Supported(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", input, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadPathsFromFile reads file paths from a list file, one per line. Empty
// lines and # comments are skipped, duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
