package convert

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxConverter extracts paragraph text from DOCX archives by parsing
// word/document.xml directly. Heading-styled paragraphs become markdown
// headings; everything else becomes plain paragraphs.
type DocxConverter struct{}

// NewDocxConverter creates a DOCX converter.
func NewDocxConverter() *DocxConverter {
	return &DocxConverter{}
}

// Name implements Converter.
func (c *DocxConverter) Name() string { return "docx" }

// Extensions implements Converter.
func (c *DocxConverter) Extensions() []string { return []string{".docx"} }

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Properties struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []struct {
		Texts []string `xml:"t"`
	} `xml:"r"`
}

// Convert implements Converter.
func (c *DocxConverter) Convert(ctx context.Context, path string) (*Result, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	var raw []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		raw, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if raw == nil {
		return nil, fmt.Errorf("no word/document.xml in archive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		var text strings.Builder
		for _, run := range p.Runs {
			for _, t := range run.Texts {
				text.WriteString(t)
			}
		}
		line := strings.TrimSpace(text.String())
		if line == "" {
			continue
		}
		if prefix := headingPrefix(p.Properties.Style.Val); prefix != "" {
			b.WriteString(prefix)
			b.WriteString(" ")
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	markdown := strings.TrimSpace(b.String())
	return &Result{
		Markdown: markdown,
		Pages:    estimatePages(markdown),
		Engine:   c.Name(),
	}, nil
}

// headingPrefix maps Word heading styles to markdown heading markers.
func headingPrefix(style string) string {
	switch strings.ToLower(style) {
	case "title", "heading1":
		return "#"
	case "heading2":
		return "##"
	case "heading3":
		return "###"
	case "heading4":
		return "####"
	default:
		return ""
	}
}
