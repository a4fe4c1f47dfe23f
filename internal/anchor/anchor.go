// Package anchor — линейная модель UTC времени по аппаратным тикам:
// якорь (UTC, tick) + фиксированная длительность тика. Экстраполяция чисто
// линейная, без сглаживания; рекалибровка заменяет якорь целиком и допускает
// скачок экстраполированного времени в обе стороны.
package anchor

// Anchor — точка привязки: UTC момент BaseUTCNs соответствовал тику BaseTicks.
type Anchor struct {
	BaseUTCNs uint64
	BaseTicks uint64
}

// Model — модель времени. Единственный мутатор — серверный цикл; модель не
// рассчитана на конкурентный доступ.
type Model struct {
	nsPerTick uint64
	anchor    Anchor
}

// NewModel создаёт модель с длительностью тика в наносекундах (1 MHz = 1000).
func NewModel(nsPerTick uint64) *Model {
	if nsPerTick == 0 {
		nsPerTick = 1000
	}
	return &Model{nsPerTick: nsPerTick}
}

// Establish безусловно заменяет якорь свежей парой (UTC, tick).
func (m *Model) Establish(utcNs, ticks uint64) {
	m.anchor = Anchor{BaseUTCNs: utcNs, BaseTicks: ticks}
}

// Extrapolate возвращает UTC в наносекундах для заданного значения счётчика.
// Разность тиков беззнаковая: якорь ставится только по прошлым показаниям
// монотонного счётчика, поэтому ticks >= BaseTicks.
func (m *Model) Extrapolate(ticks uint64) uint64 {
	return m.anchor.BaseUTCNs + (ticks-m.anchor.BaseTicks)*m.nsPerTick
}

// Anchor возвращает текущий якорь.
func (m *Model) Anchor() Anchor {
	return m.anchor
}

// NsPerTick возвращает длительность тика.
func (m *Model) NsPerTick() uint64 {
	return m.nsPerTick
}

// Recalibrate сравнивает экстраполяцию по старому якорю со свежим сэмплом
// опорных часов и заменяет якорь. Возвращает измеренный дрейф
// (sample − projected, нс, со знаком). Дрейф только для наблюдаемости —
// в модель он не подмешивается.
func (m *Model) Recalibrate(sampleUTCNs, ticks uint64) (driftNs int64) {
	projected := m.Extrapolate(ticks)
	driftNs = int64(sampleUTCNs - projected)
	m.Establish(sampleUTCNs, ticks)
	return driftNs
}
