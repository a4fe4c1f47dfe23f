package refclock

import (
	"fmt"
	"time"

	"github.com/shiwa/timecard-mini/taas-node/internal/config"
)

// New создаёт опорные часы из конфига (protocol: system, ntp, nmea).
func New(c config.RefClockConfig) (Clock, error) {
	switch c.Protocol {
	case "", "system":
		return SystemClock{}, nil
	case "ntp":
		if c.IP == "" {
			return nil, fmt.Errorf("ntp: ip required")
		}
		timeout := parseDuration(c.PollInterval, 5*time.Second)
		return NewNTP(c.IP, timeout), nil
	case "nmea":
		dev := c.Device
		if dev == "" {
			dev = "/dev/ttyS0"
		}
		baud := c.Baud
		if baud == 0 {
			baud = 9600
		}
		return NewNMEA(dev, baud, c.Offset)
	default:
		return nil, fmt.Errorf("unknown reference clock protocol: %s", c.Protocol)
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
