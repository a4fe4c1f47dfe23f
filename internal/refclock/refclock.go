// Package refclock — доверенный источник wall-clock времени для рекалибровки
// якоря. Один источник на процесс, выбирается при старте; выбора между
// несколькими источниками и failover нет.
package refclock

import "time"

// Clock — опорные часы.
type Clock interface {
	// Name возвращает имя источника для логов.
	Name() string
	// Now возвращает текущее UTC время по источнику.
	Now() (time.Time, error)
	// Close освобождает ресурсы источника.
	Close() error
}

// SystemClock — системные часы (CLOCK_REALTIME). Источник по умолчанию:
// сэмпл берётся одним syscall, чтобы зазор между ним и чтением тиков был
// минимален.
type SystemClock struct{}

// Name возвращает имя источника.
func (SystemClock) Name() string { return "system" }

// Now возвращает системное UTC время.
func (SystemClock) Now() (time.Time, error) {
	return sysNow()
}

// Close не требует освобождения ресурсов.
func (SystemClock) Close() error { return nil }
