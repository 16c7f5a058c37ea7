package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
)

// Writer persists pipeline outputs: one markdown file per document, a JSON
// knowledge sidecar only when facts exist, and an optional batch report.
type Writer struct {
	dir string
	log *logrus.Logger
}

// NewWriter creates a writer rooted at the output directory.
func NewWriter(dir string, log *logrus.Logger) *Writer {
	return &Writer{dir: dir, log: log}
}

// WriteDocument writes the final markdown, and the knowledge JSON when the
// document produced facts. Failed documents still get a markdown file so the
// failure reason and any sections recorded before it are inspectable.
func (w *Writer) WriteDocument(doc *model.Document) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if doc.Failed() && doc.Markdown == "" {
		doc.Markdown = "Processing failed: " + doc.Error + "\n"
	}

	markdown, err := doc.GenerateFinalMarkdown()
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	mdPath := filepath.Join(w.dir, doc.Stem+".md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	knowledge, err := doc.GenerateKnowledgeJSON()
	if err != nil {
		return fmt.Errorf("render knowledge JSON: %w", err)
	}
	if knowledge == nil {
		return nil
	}
	jsonPath := filepath.Join(w.dir, doc.Stem+".json")
	if err := os.WriteFile(jsonPath, knowledge, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	w.log.WithField("path", jsonPath).Debug("knowledge sidecar written")
	return nil
}

// WriteReport writes the batch report as pretty-printed JSON.
func (w *Writer) WriteReport(report *model.Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(w.dir, "report-"+report.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
