// Package convert turns source files into raw markdown text plus a page
// count. Converters are black boxes to the rest of the pipeline: the
// orchestrator only sees "markdown text + pages" or an error.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/cache"
	"github.com/docfuse/docfuse/internal/model"
)

// Result is the output of one conversion.
type Result struct {
	Markdown string `json:"markdown"`
	Pages    int    `json:"pages"`
	Title    string `json:"title,omitempty"`
	Engine   string `json:"engine"`
}

// Converter converts one file format to markdown. Implementations must be
// safe for concurrent use from worker goroutines.
type Converter interface {
	Name() string
	Extensions() []string
	Convert(ctx context.Context, path string) (*Result, error)
}

// wordsPerPage is the page estimate for formats without native pagination.
const wordsPerPage = 500

// Registry selects a converter by file extension and enforces the per-file
// timeout and the page cap around every conversion.
type Registry struct {
	byExt map[string]Converter
	cfg   model.ConvertConfig
	cache cache.Cache
	log   *logrus.Logger
}

// NewRegistry builds a registry with the default converters registered. A nil
// conversion cache disables caching.
func NewRegistry(cfg model.ConvertConfig, convCache cache.Cache, log *logrus.Logger) *Registry {
	r := &Registry{
		byExt: make(map[string]Converter),
		cfg:   cfg,
		cache: convCache,
		log:   log,
	}
	r.Register(NewPDFConverter(cfg.MaxPages))
	r.Register(NewHTMLConverter())
	r.Register(NewDocxConverter())
	r.Register(NewTextConverter())
	return r
}

// Register adds a converter for its declared extensions.
func (r *Registry) Register(c Converter) {
	for _, ext := range c.Extensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// Supported reports whether any converter handles the file.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Convert runs the matching converter under the configured timeout. On
// timeout the error is explicit so the document can be failed with a
// timeout-specific reason, never left indeterminate.
func (r *Registry) Convert(ctx context.Context, path string) (*Result, error) {
	conv, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}

	if res, ok := r.cached(path); ok {
		r.log.WithField("path", path).Debug("conversion cache hit")
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := conv.Convert(ctx, path)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("conversion timed out after %s: %w", r.cfg.Timeout, ctx.Err())
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("%s convert: %w", conv.Name(), o.err)
		}
		r.store(path, o.res)
		return o.res, nil
	}
}

func (r *Registry) cached(path string) (*Result, bool) {
	if r.cache == nil {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	data, found := r.cache.Get(cache.Key(path, info.Size(), info.ModTime()))
	if !found {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (r *Registry) store(path string, res *Result) {
	if r.cache == nil || res == nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.cache.Set(cache.Key(path, info.Size(), info.ModTime()), data, r.cfg.CacheTTL); err != nil {
		r.log.WithError(err).WithField("path", path).Warn("conversion cache write failed")
	}
}

// estimatePages approximates a page count for unpaginated formats.
func estimatePages(text string) int {
	words := len(strings.Fields(text))
	pages := words / wordsPerPage
	if words%wordsPerPage != 0 || pages == 0 {
		pages++
	}
	return pages
}
