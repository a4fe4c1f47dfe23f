// Package hwclock читает аппаратный 64-битный счётчик тиков, разбитый на два
// 32-битных регистра (системный таймер BCM2837, низкое слово +0x04, высокое +0x08).
package hwclock

// TickReader — источник тиков для серверного цикла и рекалибровки.
type TickReader interface {
	// ReadTicks возвращает текущее значение счётчика. Не блокирует и не аллоцирует.
	ReadTicks() uint64
}

// RegisterPair — пара 32-битных регистров счётчика. Аппаратура обновляет
// регистры независимо от читателя; Load* обязаны перечитывать память при
// каждом вызове (atomic load по отображённой странице).
type RegisterPair interface {
	LoadLow() uint32
	LoadHigh() uint32
}

// ReadSplitCounter выполняет оптимистичное чтение разрезанного счётчика:
// high, low, high; при несовпадении высоких слов во время чтения низкого
// произошёл перенос — чтение повторяется. Цикл сходится за одну-две итерации,
// так как счётчик инкрементируется на фиксированной низкой частоте.
// Переполнение всех 64 бит не обрабатывается.
func ReadSplitCounter(r RegisterPair) uint64 {
	for {
		h1 := r.LoadHigh()
		l := r.LoadLow()
		h2 := r.LoadHigh()
		if h1 == h2 {
			return uint64(h1)<<32 | uint64(l)
		}
	}
}
