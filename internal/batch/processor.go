package batch

import (
	"context"
	"errors"
	"fmt"
)

// MinSize is the minimum allowed batch size.
const MinSize = 1

// Common batch processing errors.
var (
	ErrInvalidSize = errors.New("batch size must be at least 1")
	ErrNilCallback = errors.New("batch callback cannot be nil")
)

// Callback processes a single batch of records. It receives the batch
// contents and the 0-based batch index, and returns an error to stop the run.
type Callback[T any] func(ctx context.Context, records []T, index int) error

// ProgressCallback is an optional callback invoked after each batch completes.
type ProgressCallback func(progress *Progress)

// Processor splits a record set into fixed-size batches and processes them
// sequentially. Explicitly configured sizes are honored as given; there is no
// upper clamp.
type Processor[T any] struct {
	size       int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	return &Processor[T]{size: size}, nil
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// Process runs the callback over each batch in order, stopping at the first
// error. An empty record set completes immediately with no callback calls.
func (p *Processor[T]) Process(ctx context.Context, records []T, callback Callback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}

	totalBatches := p.TotalBatches(len(records))
	progress := NewProgress(len(records), totalBatches, p.size)

	for index := range totalBatches {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := index * p.size
		end := start + p.size
		if end > len(records) {
			end = len(records)
		}

		if err := callback(ctx, records[start:end], index); err != nil {
			return fmt.Errorf("batch %d failed: %w", index, err)
		}

		progress.AddProcessed(end - start)
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// Size returns the configured batch size.
func (p *Processor[T]) Size() int {
	return p.size
}

// TotalBatches returns the number of batches needed for the given record
// count.
func (p *Processor[T]) TotalBatches(totalRecords int) int {
	batches := totalRecords / p.size
	if totalRecords%p.size > 0 {
		batches++
	}
	return batches
}
