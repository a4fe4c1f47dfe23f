//go:build linux

package rtsched

import (
	"golang.org/x/sys/unix"
)

func setup(o Options, report func(step string, err error)) Capabilities {
	var caps Capabilities

	if o.CPUCore >= 0 {
		var set unix.CPUSet
		set.Zero()
		set.Set(o.CPUCore)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			report("sched_setaffinity", err)
		} else {
			caps.CPUPinned = true
		}
	}

	// Текущие и будущие страницы — в RAM: без page fault в цикле обслуживания.
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		report("mlockall", err)
	} else {
		caps.MemoryLocked = true
	}

	prio := o.Priority
	if prio <= 0 || prio > 99 {
		prio = 99
	}
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(prio),
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		report("sched_setattr", err)
	} else {
		caps.Realtime = true
	}

	return caps
}
