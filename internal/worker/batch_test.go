package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
)

// fakeProcessor marks every .txt file as written.
type fakeProcessor struct{}

func (f *fakeProcessor) Supported(path string) bool {
	return filepath.Ext(path) == ".txt"
}

func (f *fakeProcessor) Process(ctx context.Context, path string) (*model.Document, error) {
	doc := model.NewDocument(path, 0)
	if strings.Contains(path, "bad") {
		doc.MarkFailed("synthetic failure")
	} else {
		doc.State = model.StateWritten
	}
	return doc, nil
}

func testLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "paths.txt")
	content := strings.Join([]string{
		"# comment",
		"",
		"/data/a.pdf",
		"/data/b.docx",
		"/data/a.pdf",
		"   ",
	}, "\n")
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"/data/a.pdf", "/data/b.docx"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestCollectFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "skip.bin"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := CollectFiles(dir, &fakeProcessor{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("expected 3 supported files, got %v", paths)
	}
	// Sorted, and the nested file included.
	if filepath.Base(paths[0]) != "a.txt" || filepath.Base(paths[1]) != "b.txt" {
		t.Errorf("expected sorted order, got %v", paths)
	}
	if filepath.Base(paths[2]) != "c.txt" {
		t.Errorf("expected nested file, got %v", paths)
	}
}

func TestBatchProcessor_EveryInputAccounted(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"one.txt", "two.txt", "bad.txt"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	cfg := model.ConcurrencyConfig{
		Workers:        2,
		QueueSize:      8,
		EnqueueTimeout: time.Second,
	}
	b := NewBatchProcessor(&fakeProcessor{}, cfg, 1<<20, testLog())
	report := b.ProcessPaths(context.Background(), paths)

	if len(report.Files) != 3 {
		t.Fatalf("every input must appear in the report, got %d entries", len(report.Files))
	}
	if report.Processed != 2 {
		t.Errorf("expected 2 written, got %d", report.Processed)
	}
	if report.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", report.Failed)
	}
	if report.RunID == "" {
		t.Error("report should carry a run id")
	}

	for _, f := range report.Files {
		if strings.Contains(f.Path, "bad") {
			if f.Status != model.OutcomeFailed || f.Reason == "" {
				t.Errorf("failed file should carry status and reason: %+v", f)
			}
		}
	}
}

// slowProcessor holds every job long enough to exhaust a tiny queue.
type slowProcessor struct{ delay time.Duration }

func (s *slowProcessor) Supported(path string) bool { return true }

func (s *slowProcessor) Process(ctx context.Context, path string) (*model.Document, error) {
	time.Sleep(s.delay)
	doc := model.NewDocument(path, 0)
	doc.State = model.StateWritten
	return doc, nil
}

func TestBatchProcessor_QueueDropsInvokeCallback(t *testing.T) {
	cfg := model.ConcurrencyConfig{
		Workers:        1,
		QueueSize:      1,
		EnqueueTimeout: 10 * time.Millisecond,
	}
	b := NewBatchProcessor(&slowProcessor{delay: 500 * time.Millisecond}, cfg, 0, testLog())

	var drops int
	b.OnQueueDrop(func() { drops++ })

	var paths []string
	for i := 0; i < 6; i++ {
		paths = append(paths, filepath.Join("/nonexistent", "doc", "file.txt"))
	}
	report := b.ProcessPaths(context.Background(), paths)

	if report.Dropped == 0 {
		t.Fatal("expected queue backpressure to drop files")
	}
	if drops != report.Dropped {
		t.Errorf("drop callback fired %d times for %d dropped files", drops, report.Dropped)
	}
	if len(report.Files) != len(paths) {
		t.Errorf("every input must appear in the report, got %d of %d", len(report.Files), len(paths))
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	cfg := model.ConcurrencyConfig{Workers: 1, QueueSize: 1, EnqueueTimeout: time.Second}
	b := NewBatchProcessor(&fakeProcessor{}, cfg, 0, testLog())

	report := b.ProcessPaths(context.Background(), nil)
	if len(report.Files) != 0 {
		t.Errorf("expected empty report, got %d entries", len(report.Files))
	}
}
