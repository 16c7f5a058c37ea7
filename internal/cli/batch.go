package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/docfuse/docfuse/internal/model"
	"github.com/docfuse/docfuse/internal/pipeline"
	"github.com/docfuse/docfuse/internal/worker"
)

var (
	concurrency  int
	queueSize    int
	batchTimeout time.Duration
	metricsAddr  string
	noReport     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-list>",
	Short: "Process many documents in parallel",
	Long: `Batch processes a directory tree or a list file of paths:
- A directory is walked recursively for supported files
- A plain file is read as one path per line (# comments allowed)
- Files run concurrently on a bounded pool with queue backpressure
- A service-wide memory budget defers admission, never drops input
- A run report accounts for every input file

Example:
  docfuse batch ./documents
  docfuse batch paths.txt --concurrency 8 --output-dir ./out
  docfuse batch ./documents --metrics-addr :9090`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker count (0 = config default)")
	batchCmd.Flags().IntVar(&queueSize, "queue-size", 0, "job queue capacity (0 = config default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total batch timeout")
	batchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address (e.g. :9090)")
	batchCmd.Flags().BoolVar(&noReport, "no-report", false, "skip writing the run report")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if queueSize > 0 {
		cfg.Concurrency.QueueSize = queueSize
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Convert.CacheEnabled = false
	}
	if noReport {
		cfg.Output.WriteReport = false
	}

	log := newLogger()
	metrics := pipeline.NewMetrics()
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	p, err := pipeline.New(cfg, metrics, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	paths, err := worker.CollectFiles(input, p)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported files found in %s", input)
	}

	fmt.Fprintf(os.Stderr, "Processing %d files with %d workers\n", len(paths), cfg.Concurrency.Workers)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency, cfg.Memory.ServiceLimitBytes(), log)
	processor.OnQueueDrop(metrics.QueueDrops.Inc)
	report := processor.ProcessPaths(ctx, paths)

	for _, f := range report.Files {
		switch f.Status {
		case model.OutcomeWritten:
			fmt.Fprintf(os.Stderr, "✓ %s (%d entities, %d facts)\n", f.Path, f.Entities, f.Facts)
		default:
			fmt.Fprintf(os.Stderr, "✗ %s: %s (%s)\n", f.Path, f.Status, f.Reason)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(report.Files))
	fmt.Fprintf(os.Stderr, "  Written:   %d\n", report.Processed)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", report.Failed)
	fmt.Fprintf(os.Stderr, "  Dropped:   %d\n", report.Dropped)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)

	if cfg.Output.WriteReport {
		path, err := p.WriteReport(report)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  Report:    %s\n", path)
	}
	return nil
}
