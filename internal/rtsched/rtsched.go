// Package rtsched — best-effort перевод процесса в режим реального времени:
// привязка к ядру, блокировка памяти, SCHED_FIFO. Каждый шаг независим,
// неудача сужает гарантии джиттера, но не останавливает запуск.
package rtsched

// Capabilities — отчёт о фактически полученных возможностях. Потребляется
// только логированием, не управлением.
type Capabilities struct {
	CPUPinned    bool
	MemoryLocked bool
	Realtime     bool
}

// Options — запрошенные параметры реального времени.
type Options struct {
	// CPUCore — ядро для привязки; отрицательное значение — не привязывать.
	CPUCore int
	// Priority — приоритет SCHED_FIFO (1..99).
	Priority int
}

// Setup выполняет шаги по порядку (affinity, mlockall, SCHED_FIFO) и
// возвращает отчёт; ошибки отдельных шагов отдаются через report, а не
// прерывают выполнение.
func Setup(o Options, report func(step string, err error)) Capabilities {
	if report == nil {
		report = func(string, error) {}
	}
	return setup(o, report)
}
