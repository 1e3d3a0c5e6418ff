//go:build !windows

package fdlimit

import "golang.org/x/sys/unix"

// SoftLimit queries the RLIMIT_NOFILE soft limit for the current process.
func SoftLimit() (uint64, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, err
	}
	return uint64(rl.Cur), nil
}
