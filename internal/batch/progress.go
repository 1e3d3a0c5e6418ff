package batch

import "time"

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Progress tracks the state of a sequential batch run. It is updated and read
// from the processing goroutine only, so it carries no locking.
type Progress struct {
	// TotalRecords is the total number of records to process.
	TotalRecords int

	// ProcessedRecords is the number of records processed so far.
	ProcessedRecords int

	// TotalBatches is the total number of batches.
	TotalBatches int

	// ProcessedBatches is the number of batches completed so far.
	ProcessedBatches int

	// BatchSize is the configured batch size.
	BatchSize int

	// StartTime is when processing started.
	StartTime time.Time
}

// NewProgress creates a progress tracker for a run.
func NewProgress(totalRecords, totalBatches, batchSize int) *Progress {
	return &Progress{
		TotalRecords: totalRecords,
		TotalBatches: totalBatches,
		BatchSize:    batchSize,
		StartTime:    time.Now(),
	}
}

// AddProcessed records completion of one batch of the given size.
func (p *Progress) AddProcessed(recordsProcessed int) {
	p.ProcessedRecords += recordsProcessed
	p.ProcessedBatches++
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	if p.TotalRecords == 0 {
		return 0
	}
	return (float64(p.ProcessedRecords) / float64(p.TotalRecords)) * percentMultiplier
}

// IsComplete returns true once every record has been processed.
func (p *Progress) IsComplete() bool {
	return p.ProcessedRecords >= p.TotalRecords
}

// Elapsed returns the time since processing started.
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.StartTime)
}

// RecordsPerSecond returns the processing rate so far.
func (p *Progress) RecordsPerSecond() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.ProcessedRecords) / elapsed
}
