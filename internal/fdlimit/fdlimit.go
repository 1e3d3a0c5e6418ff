// Package fdlimit derives xtemp's default batch size from the process's
// open-file limit.
//
// The tempfile pool holds one descriptor per slot for the whole run, so the
// default batch size must stay safely below RLIMIT_NOFILE: the margin leaves
// room for the standard streams, the list file, the log file, and whatever
// the spawned child opens. Only the derived default is margined; an explicit
// --batch-size is trusted as given, and an oversized one surfaces later as a
// pool provisioning failure.
package fdlimit

const (
	// FallbackLimit is assumed when the platform limit cannot be queried.
	FallbackLimit = 1024

	// DefaultMargin is the number of descriptors held back from the soft
	// limit when deriving the default batch size.
	DefaultMargin = 32
)

// LimitFunc reports the soft limit on open file descriptors. It is injected
// into DefaultBatchSize so callers (and tests) can substitute a fake limit.
type LimitFunc func() (uint64, error)

// DefaultBatchSize returns the derived default batch size: the reported soft
// limit minus margin, never below 1. A nil limit function or a query error
// falls back to FallbackLimit. Margins below zero are treated as zero.
func DefaultBatchSize(limit LimitFunc, margin int) int {
	if margin < 0 {
		margin = 0
	}

	cur := uint64(FallbackLimit)
	if limit != nil {
		if v, err := limit(); err == nil {
			cur = v
		}
	}

	// Clamp before converting so absurd limits (RLIM_INFINITY) cannot
	// overflow int.
	const maxReasonable = 1 << 20
	if cur > maxReasonable {
		cur = maxReasonable
	}

	size := int(cur) - margin
	if size < 1 {
		size = 1
	}
	return size
}
