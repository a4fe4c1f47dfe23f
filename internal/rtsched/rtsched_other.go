//go:build !linux

package rtsched

import "errors"

var errUnsupported = errors.New("realtime scheduling is only supported on linux")

func setup(o Options, report func(step string, err error)) Capabilities {
	report("rtsched", errUnsupported)
	return Capabilities{}
}
