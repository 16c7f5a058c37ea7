package model

import "errors"

var (
	// ErrMemoryCeiling is returned when a mutation would push a document
	// over its configured memory ceiling.
	ErrMemoryCeiling = errors.New("document memory ceiling exceeded")

	// ErrDocumentFailed is returned when a stage is invoked on a document
	// that already reached the FAILED state.
	ErrDocumentFailed = errors.New("document is in failed state")

	// ErrQueueFull is returned when a work item cannot be enqueued within
	// the configured backpressure timeout.
	ErrQueueFull = errors.New("work queue full")

	// ErrInvalidInput is returned for nil or empty required inputs.
	ErrInvalidInput = errors.New("invalid input")
)
