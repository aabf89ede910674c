// Package noise содержит генераторы процедурного шума: Perlin, Simplex,
// белый (хеш) шум и фрактальный компоновщик (fBm) поверх любого из них.
//
// Все генераторы неизменяемы после создания и безопасны для параллельного
// чтения из нескольких горутин. Исключение — сеттеры Brownian, которые
// нельзя вызывать одновременно с запросами шума.
package noise

import (
	"errors"
	"math"
)

// Noise — общий интерфейс генератора шума.
type Noise interface {
	// Noise2 возвращает значение шума в точке (x, y)
	Noise2(x, y float64) float64
	// Noise3 возвращает значение шума в точке (x, y, z)
	Noise3(x, y, z float64) float64
}

// Noise4 реализуют генераторы, умеющие считать четырёхмерный шум.
type Noise4 interface {
	Noise
	Noise4(x, y, z, w float64) float64
}

// ErrInvalidArgument возвращается при нарушении предусловий (размер сетки,
// число октав и т.п.). Конкретные ошибки оборачивают её через %w.
var ErrInvalidArgument = errors.New("invalid argument")

// clamp ограничивает v диапазоном [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fade — квинтическая кривая 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// fastFloor возвращает floor(x) как int
func fastFloor(x float64) int {
	return int(math.Floor(x))
}
