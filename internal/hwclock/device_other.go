//go:build !linux

package hwclock

import "fmt"

// Device доступен только на Linux (mmap устройства таймера).
type Device struct{}

// Open на не-Linux платформах всегда возвращает ошибку.
func Open(path string) (*Device, error) {
	return nil, fmt.Errorf("hwclock: timer device %s is only supported on linux", path)
}

// LoadLow — заглушка.
func (d *Device) LoadLow() uint32 { return 0 }

// LoadHigh — заглушка.
func (d *Device) LoadHigh() uint32 { return 0 }

// ReadTicks — заглушка.
func (d *Device) ReadTicks() uint64 { return 0 }

// Close — заглушка.
func (d *Device) Close() error { return nil }
