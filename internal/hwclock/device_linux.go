//go:build linux

package hwclock

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Отображение устройства таймера: одна страница read-only, MAP_SHARED —
// обновления аппаратуры видны без перечитывания файла.
const (
	mapSize   = 4096
	offsetLow = 0x04 // BCM2837 System Timer CLO
	offsetHi  = 0x08 // BCM2837 System Timer CHI
)

// Device — открытое и отображённое устройство таймера (/dev/taas_timer).
// Отображение устанавливается один раз при старте; ошибка открытия фатальна
// для узла (без счётчика узлу нечего отдавать).
type Device struct {
	f   *os.File
	mem []byte
	low *uint32
	hi  *uint32
}

// Open открывает устройство и отображает страницу регистров.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open timer device %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, mapSize, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Device{
		f:   f,
		mem: mem,
		low: (*uint32)(unsafe.Pointer(&mem[offsetLow])),
		hi:  (*uint32)(unsafe.Pointer(&mem[offsetHi])),
	}, nil
}

// LoadLow читает низкое слово счётчика.
func (d *Device) LoadLow() uint32 { return atomic.LoadUint32(d.low) }

// LoadHigh читает высокое слово счётчика.
func (d *Device) LoadHigh() uint32 { return atomic.LoadUint32(d.hi) }

// ReadTicks возвращает 64-битное значение счётчика по retry-протоколу.
func (d *Device) ReadTicks() uint64 {
	return ReadSplitCounter(d)
}

// Close снимает отображение и закрывает устройство.
func (d *Device) Close() error {
	var first error
	if d.mem != nil {
		if err := unix.Munmap(d.mem); err != nil {
			first = err
		}
		d.mem = nil
		d.low = nil
		d.hi = nil
	}
	if d.f != nil {
		if err := d.f.Close(); err != nil && first == nil {
			first = err
		}
		d.f = nil
	}
	return first
}
