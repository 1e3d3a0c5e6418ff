// Package batch partitions a buffered record set into fixed-size batches and
// drives a caller-supplied function over them in order.
//
// Batches are subslices of the input, so partitioning allocates no record
// copies. Processing is strictly sequential: batch k+1 starts only after the
// callback for batch k returns, and the first error stops the run. The final
// batch may be smaller than the configured size; an empty input produces zero
// batches and is not an error.
package batch
