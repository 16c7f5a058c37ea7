package model

import (
	"runtime"
	"time"
)

// Config is the complete docfuse configuration.
// Populated from (highest to lowest priority): CLI flags, DOCFUSE_* env vars,
// ~/.docfuse/config.yaml, defaults.
type Config struct {
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Memory      MemoryConfig      `yaml:"memory" json:"memory"`
	Convert     ConvertConfig     `yaml:"convert" json:"convert"`
	Classify    ClassifyConfig    `yaml:"classify" json:"classify"`
	Extract     ExtractConfig     `yaml:"extract" json:"extract"`
	Stages      StagesConfig      `yaml:"stages" json:"stages"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// ConcurrencyConfig controls the worker pool and its backpressure behaviour.
type ConcurrencyConfig struct {
	Workers        int           `yaml:"workers" json:"workers"`
	QueueSize      int           `yaml:"queue_size" json:"queue_size"`
	EnqueueTimeout time.Duration `yaml:"enqueue_timeout" json:"enqueue_timeout"`
	FilesPerSecond float64       `yaml:"files_per_second" json:"files_per_second"`
	Burst          int           `yaml:"burst" json:"burst"`
}

// MemoryConfig holds the per-document and service-wide memory ceilings.
type MemoryConfig struct {
	DocumentLimitMB int `yaml:"document_limit_mb" json:"document_limit_mb"`
	ServiceLimitMB  int `yaml:"service_limit_mb" json:"service_limit_mb"`
}

// DocumentLimitBytes returns the per-document ceiling in bytes.
func (m MemoryConfig) DocumentLimitBytes() int64 {
	return int64(m.DocumentLimitMB) * 1024 * 1024
}

// ServiceLimitBytes returns the service-wide ceiling in bytes.
func (m MemoryConfig) ServiceLimitBytes() int64 {
	return int64(m.ServiceLimitMB) * 1024 * 1024
}

// ConvertConfig controls document conversion.
type ConvertConfig struct {
	MaxPages     int           `yaml:"max_pages" json:"max_pages"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	CacheEnabled bool          `yaml:"cache_enabled" json:"cache_enabled"`
	CacheDir     string        `yaml:"cache_dir" json:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// ClassifyConfig holds the domain-confidence routing thresholds (percent).
type ClassifyConfig struct {
	LowThreshold  float64 `yaml:"low_threshold" json:"low_threshold"`
	MidThreshold  float64 `yaml:"mid_threshold" json:"mid_threshold"`
	HighThreshold float64 `yaml:"high_threshold" json:"high_threshold"`
}

// ExtractConfig controls entity extraction.
type ExtractConfig struct {
	MaxPerKind    int  `yaml:"max_per_kind" json:"max_per_kind"`
	NLPPersonPass bool `yaml:"nlp_person_pass" json:"nlp_person_pass"`
}

// StagesConfig enables or disables individual pipeline stages.
type StagesConfig struct {
	Convert   bool `yaml:"convert" json:"convert"`
	Classify  bool `yaml:"classify" json:"classify"`
	Enrich    bool `yaml:"enrich" json:"enrich"`
	Normalize bool `yaml:"normalize" json:"normalize"`
	Extract   bool `yaml:"extract" json:"extract"`
}

// OutputConfig controls output writing.
type OutputConfig struct {
	Dir         string `yaml:"dir" json:"dir"`
	WriteReport bool   `yaml:"write_report" json:"write_report"`
	Verbose     bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the built-in defaults, sized for a constrained
// deployment (1GB service budget, 50MB per document).
func DefaultConfig() *Config {
	return &Config{
		Concurrency: ConcurrencyConfig{
			Workers:        runtime.NumCPU(),
			QueueSize:      64,
			EnqueueTimeout: 30 * time.Second,
			FilesPerSecond: 50,
			Burst:          10,
		},
		Memory: MemoryConfig{
			DocumentLimitMB: 50,
			ServiceLimitMB:  1024,
		},
		Convert: ConvertConfig{
			MaxPages:     500,
			Timeout:      60 * time.Second,
			CacheEnabled: true,
			CacheDir:     "",
			CacheTTL:     24 * time.Hour,
		},
		Classify: ClassifyConfig{
			LowThreshold:  5,
			MidThreshold:  30,
			HighThreshold: 60,
		},
		Extract: ExtractConfig{
			MaxPerKind:    50,
			NLPPersonPass: false,
		},
		Stages: StagesConfig{
			Convert:   true,
			Classify:  true,
			Enrich:    true,
			Normalize: true,
			Extract:   true,
		},
		Output: OutputConfig{
			Dir:         "./docfuse-output",
			WriteReport: true,
			Verbose:     false,
		},
	}
}
