//go:build linux

package refclock

import (
	"time"

	"golang.org/x/sys/unix"
)

// sysNow читает CLOCK_REALTIME напрямую через clock_gettime.
func sysNow() (time.Time, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(ts.Sec), int64(ts.Nsec)).UTC(), nil
}
