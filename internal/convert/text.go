package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextConverter handles plain text and markdown files, which pass through
// unchanged apart from line-ending normalization.
type TextConverter struct{}

// NewTextConverter creates a plain text converter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Name implements Converter.
func (c *TextConverter) Name() string { return "text" }

// Extensions implements Converter.
func (c *TextConverter) Extensions() []string {
	return []string{".txt", ".md", ".markdown", ".text", ".log", ".csv"}
}

// Convert implements Converter.
func (c *TextConverter) Convert(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return &Result{
		Markdown: markdown,
		Pages:    estimatePages(markdown),
		Engine:   c.Name(),
	}, nil
}
