package classify

import (
	"strings"

	"github.com/docfuse/docfuse/internal/model"
)

// Screen computes the cheap boolean content flags over the raw markdown.
// It runs once per document, right after conversion; later stages consume
// the flags instead of re-scanning the text.
func Screen(markdown string) model.ScreenFlags {
	flags := model.ScreenFlags{
		HasImages:     strings.Contains(markdown, "!["),
		HasCodeBlocks: strings.Contains(markdown, "```"),
		HasLinks:      strings.Contains(markdown, "](") || strings.Contains(markdown, "http://") || strings.Contains(markdown, "https://"),
		WordCount:     len(strings.Fields(markdown)),
	}
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2 {
			flags.HasTables = true
			break
		}
	}
	return flags
}
