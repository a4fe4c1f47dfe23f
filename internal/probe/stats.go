// Package probe — статистика задержек для измерения джиттера узла
// (min/avg/max/stdev по выборке round-trip задержек).
package probe

import "math"

// Stats — сводка по выборке задержек в микросекундах.
type Stats struct {
	Count    int
	MinUs    float64
	AvgUs    float64
	MaxUs    float64
	StdevUs  float64
	// JitterUs — размах выборки (max − min).
	JitterUs float64
}

// Compute считает сводку по выборке. Пустая выборка — нулевая сводка.
func Compute(latenciesUs []float64) Stats {
	n := len(latenciesUs)
	if n == 0 {
		return Stats{}
	}
	s := Stats{Count: n, MinUs: latenciesUs[0], MaxUs: latenciesUs[0]}
	var sum float64
	for _, v := range latenciesUs {
		if v < s.MinUs {
			s.MinUs = v
		}
		if v > s.MaxUs {
			s.MaxUs = v
		}
		sum += v
	}
	s.AvgUs = sum / float64(n)
	if n > 1 {
		var sq float64
		for _, v := range latenciesUs {
			d := v - s.AvgUs
			sq += d * d
		}
		// Выборочное стандартное отклонение (n−1), как statistics.stdev.
		s.StdevUs = math.Sqrt(sq / float64(n-1))
	}
	s.JitterUs = s.MaxUs - s.MinUs
	return s
}
