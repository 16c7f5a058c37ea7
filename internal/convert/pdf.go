package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFConverter extracts plain text from PDF files page by page. Conversion
// stops at maxPages; the recorded page count is the number actually read.
type PDFConverter struct {
	maxPages int
}

// NewPDFConverter creates a PDF converter with the given page cap.
func NewPDFConverter(maxPages int) *PDFConverter {
	return &PDFConverter{maxPages: maxPages}
}

// Name implements Converter.
func (c *PDFConverter) Name() string { return "pdf" }

// Extensions implements Converter.
func (c *PDFConverter) Extensions() []string { return []string{".pdf"} }

// Convert implements Converter.
func (c *PDFConverter) Convert(ctx context.Context, path string) (*Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	totalPages := r.NumPage()
	pages := totalPages
	if c.maxPages > 0 && pages > c.maxPages {
		pages = c.maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page is not fatal; the rest of the
			// document still converts.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return &Result{
		Markdown: strings.TrimSpace(b.String()),
		Pages:    pages,
		Engine:   c.Name(),
	}, nil
}
