package noise

import "math"

// White — белый (хеш) шум: значение зависит только от битового
// представления координат и сида, пространственной связности нет.
type White struct {
	seed uint32
}

// NewWhite создаёт белый шум
func NewWhite(seed int32) *White {
	return &White{seed: uint32(seed)}
}

// Noise2 возвращает значение в [-1, 1]
func (w *White) Noise2(x, y float64) float64 {
	return toSigned(w.hash2(floatBits(x), floatBits(y)))
}

// Noise3 возвращает значение в [-1, 1]
func (w *White) Noise3(x, y, z float64) float64 {
	return toSigned(w.hash3(floatBits(x), floatBits(y), floatBits(z)))
}

// IntNoise2 — целочисленный вариант, значение в [0, 1]
func (w *White) IntNoise2(x, y int32) float64 {
	return toUnsigned(w.hash2(uint32(x), uint32(y)))
}

// IntNoise3 — целочисленный вариант, значение в [0, 1]
func (w *White) IntNoise3(x, y, z int32) float64 {
	return toUnsigned(w.hash3(uint32(x), uint32(y), uint32(z)))
}

func (w *White) hash2(x, y uint32) uint32 {
	return mix32(y ^ mix32(x^w.seed))
}

func (w *White) hash3(x, y, z uint32) uint32 {
	return mix32(z ^ w.hash2(x, y))
}

// mix32 — 32-битный хеш Вана (avalanche)
func mix32(a uint32) uint32 {
	a = (a ^ 61) ^ (a >> 16)
	a += a << 3
	a ^= a >> 4
	a *= 0x27d4eb2d
	a ^= a >> 15
	return a
}

// floatBits берёт биты координаты в одинарной точности, так что одинаковые
// float32-координаты дают одинаковый шум
func floatBits(v float64) uint32 {
	return math.Float32bits(float32(v))
}

func toSigned(h uint32) float64 {
	return clamp(float64(int32(h))/math.MaxInt32, -1, 1)
}

func toUnsigned(h uint32) float64 {
	return float64(h&math.MaxInt32) / math.MaxInt32
}
