//go:build windows

package fdlimit

import "errors"

// SoftLimit is unavailable on Windows; callers fall back to FallbackLimit.
func SoftLimit() (uint64, error) {
	return 0, errors.New("fdlimit: no file descriptor limit on windows")
}
