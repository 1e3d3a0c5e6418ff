package pool

import "fmt"

// ProvisionError reports a failure to create a scratch file during pool or
// list file allocation. Allocation is all-or-nothing: by the time a
// ProvisionError surfaces, any files created earlier in the same call have
// been removed.
type ProvisionError struct {
	Err error
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	return fmt.Sprintf("creating scratch file: %v", e.Err)
}

// Unwrap returns the underlying OS error.
func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed rewrite of a pool slot or list file mid-run.
type WriteError struct {
	// Path is the scratch file that could not be rewritten.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing scratch file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *WriteError) Unwrap() error {
	return e.Err
}
