package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// HTMLConverter converts HTML files to markdown.
type HTMLConverter struct{}

// NewHTMLConverter creates an HTML converter.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

// Name implements Converter.
func (c *HTMLConverter) Name() string { return "html" }

// Extensions implements Converter.
func (c *HTMLConverter) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

// Convert implements Converter.
func (c *HTMLConverter) Convert(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown, err := htmltomarkdown.ConvertString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("html to markdown: %w", err)
	}
	markdown = strings.TrimSpace(markdown)

	return &Result{
		Markdown: markdown,
		Pages:    estimatePages(markdown),
		Title:    extractTitle(string(raw)),
		Engine:   c.Name(),
	}, nil
}

// extractTitle walks the parsed HTML for the <title> element.
func extractTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
