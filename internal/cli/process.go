package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docfuse/docfuse/internal/pipeline"
)

var (
	outputDir  string
	timeout    time.Duration
	noCache    bool
	maxPages   int
	nlpPersons bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Process a single document into markdown and knowledge JSON",
	Long: `Process converts one document and runs the full extraction pipeline:
- Convert PDF, DOCX, HTML, or text to markdown
- Classify the domain and document type with confidence routing
- Extract entities (global vocabulary, plus domain kinds when confident)
- Normalize entities into canonical forms with alias merging
- Derive subject-predicate-object facts

Example:
  docfuse process handbook.pdf
  docfuse process policy.docx --output-dir ./out --timeout 2m
  docfuse process notice.html --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (default from config)")
	processCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall processing timeout")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
	processCmd.Flags().IntVar(&maxPages, "max-pages", 0, "page cap for paginated formats (0 = config default)")
	processCmd.Flags().BoolVar(&nlpPersons, "nlp-persons", false, "enable the statistical person-name pass")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Convert.CacheEnabled = false
	}
	if maxPages > 0 {
		cfg.Convert.MaxPages = maxPages
	}
	if nlpPersons {
		cfg.Extract.NLPPersonPass = true
	}

	log := newLogger()
	p, err := pipeline.New(cfg, pipeline.NewMetrics(), log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	if !p.Supported(path) {
		return fmt.Errorf("unsupported file type: %s", path)
	}

	doc, err := p.Process(ctx, path)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if doc.Failed() {
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", path, doc.Error)
		fmt.Fprintf(os.Stderr, "  Failure output written to %s\n", cfg.Output.Dir)
		return nil
	}

	fmt.Fprintf(os.Stderr, "✓ %s\n", path)
	if c := doc.Sections.Classification; c != nil {
		fmt.Fprintf(os.Stderr, "  Domain:   %s (%.1f%%)\n", c.PrimaryDomain, c.PrimaryDomainConfidence)
	}
	if e := doc.Sections.Enrichment; e != nil && !e.Skipped {
		fmt.Fprintf(os.Stderr, "  Entities: %d (%d government matches)\n", len(e.Entities), e.GovernmentMatches)
	}
	if s := doc.Semantic; s != nil && !s.Skipped {
		fmt.Fprintf(os.Stderr, "  Facts:    %d\n", s.Summary.TotalFacts)
	}
	fmt.Fprintf(os.Stderr, "  Output:   %s\n", cfg.Output.Dir)
	return nil
}
