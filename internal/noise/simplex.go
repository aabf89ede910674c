package noise

import "math"

// Константы скоса для 2D, 3D и 4D симплексных сеток
var (
	f2 = 0.5 * (math.Sqrt(3) - 1)
	g2 = (3 - math.Sqrt(3)) / 6
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
	f4 = (math.Sqrt(5) - 1) / 4
	g4 = (5 - math.Sqrt(5)) / 20
)

// grad4 — 32 направления градиента для 4D
var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// DefaultSimplexOctaves — число октав внутреннего fBm у Simplex
const DefaultSimplexOctaves = 8

// Simplex — симплексный шум для 2D, 3D и 4D.
type Simplex struct {
	perm      *PermutationTable
	permMod12 [512]int
	fbm       *Brownian
}

// NewSimplex создаёт симплексный шум с таблицей на 256 элементов
func NewSimplex(seed int64) *Simplex {
	perm, _ := NewPermutationTable(seed, DefaultGridDim)
	s := &Simplex{perm: perm}
	for i := range s.permMod12 {
		s.permMod12[i] = perm.At(i) % 12
	}
	// Октавы заведомо валидны, ошибки быть не может
	s.fbm, _ = NewBrownian(s, DefaultSimplexOctaves)
	return s
}

func dot2(g *[3]float64, x, y float64) float64 {
	return g[0]*x + g[1]*y
}

func dot3(g *[3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}

func dot4(g *[4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

// Noise2 возвращает 2D симплексный шум в [-1, 1]
func (s *Simplex) Noise2(xin, yin float64) float64 {
	var n0, n1, n2 float64

	// Скос входного пространства, чтобы найти ячейку симплекса
	sk := (xin + yin) * f2
	i := fastFloor(xin + sk)
	j := fastFloor(yin + sk)
	t := float64(i+j) * g2
	x0 := xin - (float64(i) - t)
	y0 := yin - (float64(j) - t)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := i & 255
	jj := j & 255
	gi0 := s.permMod12[ii+s.perm.At(jj)]
	gi1 := s.permMod12[ii+i1+s.perm.At(jj+j1)]
	gi2 := s.permMod12[ii+1+s.perm.At(jj+1)]

	if t0 := 0.5 - x0*x0 - y0*y0; t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot2(&grad3[gi0], x0, y0)
	}
	if t1 := 0.5 - x1*x1 - y1*y1; t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot2(&grad3[gi1], x1, y1)
	}
	if t2 := 0.5 - x2*x2 - y2*y2; t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot2(&grad3[gi2], x2, y2)
	}

	return clamp(70*(n0+n1+n2), -1, 1)
}

// Noise3 возвращает 3D симплексный шум в [-1, 1]
func (s *Simplex) Noise3(xin, yin, zin float64) float64 {
	var n0, n1, n2, n3 float64

	sk := (xin + yin + zin) * f3
	i := fastFloor(xin + sk)
	j := fastFloor(yin + sk)
	k := fastFloor(zin + sk)
	t := float64(i+j+k) * g3
	x0 := xin - (float64(i) - t)
	y0 := yin - (float64(j) - t)
	z0 := zin - (float64(k) - t)

	// Выбор тетраэдра по порядку величин x0, y0, z0
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2*g3
	y2 := y0 - float64(j2) + 2*g3
	z2 := z0 - float64(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	p := s.perm
	gi0 := s.permMod12[ii+p.At(jj+p.At(kk))]
	gi1 := s.permMod12[ii+i1+p.At(jj+j1+p.At(kk+k1))]
	gi2 := s.permMod12[ii+i2+p.At(jj+j2+p.At(kk+k2))]
	gi3 := s.permMod12[ii+1+p.At(jj+1+p.At(kk+1))]

	if t0 := 0.6 - x0*x0 - y0*y0 - z0*z0; t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot3(&grad3[gi0], x0, y0, z0)
	}
	if t1 := 0.6 - x1*x1 - y1*y1 - z1*z1; t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot3(&grad3[gi1], x1, y1, z1)
	}
	if t2 := 0.6 - x2*x2 - y2*y2 - z2*z2; t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot3(&grad3[gi2], x2, y2, z2)
	}
	if t3 := 0.6 - x3*x3 - y3*y3 - z3*z3; t3 >= 0 {
		t3 *= t3
		n3 = t3 * t3 * dot3(&grad3[gi3], x3, y3, z3)
	}

	return clamp(32*(n0+n1+n2+n3), -1, 1)
}

// Noise4 возвращает 4D симплексный шум в [-1, 1]
func (s *Simplex) Noise4(x, y, z, w float64) float64 {
	var n0, n1, n2, n3, n4 float64

	sk := (x + y + z + w) * f4
	i := fastFloor(x + sk)
	j := fastFloor(y + sk)
	k := fastFloor(z + sk)
	l := fastFloor(w + sk)
	t := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)
	w0 := w - (float64(l) - t)

	// Ранг каждой оси по шести попарным сравнениям определяет,
	// какой из 24 симплексов содержит точку.
	var rankx, ranky, rankz, rankw int
	if x0 > y0 {
		rankx++
	} else {
		ranky++
	}
	if x0 > z0 {
		rankx++
	} else {
		rankz++
	}
	if x0 > w0 {
		rankx++
	} else {
		rankw++
	}
	if y0 > z0 {
		ranky++
	} else {
		rankz++
	}
	if y0 > w0 {
		ranky++
	} else {
		rankw++
	}
	if z0 > w0 {
		rankz++
	} else {
		rankw++
	}

	i1, j1, k1, l1 := b2i(rankx >= 3), b2i(ranky >= 3), b2i(rankz >= 3), b2i(rankw >= 3)
	i2, j2, k2, l2 := b2i(rankx >= 2), b2i(ranky >= 2), b2i(rankz >= 2), b2i(rankw >= 2)
	i3, j3, k3, l3 := b2i(rankx >= 1), b2i(ranky >= 1), b2i(rankz >= 1), b2i(rankw >= 1)

	x1 := x0 - float64(i1) + g4
	y1 := y0 - float64(j1) + g4
	z1 := z0 - float64(k1) + g4
	w1 := w0 - float64(l1) + g4
	x2 := x0 - float64(i2) + 2*g4
	y2 := y0 - float64(j2) + 2*g4
	z2 := z0 - float64(k2) + 2*g4
	w2 := w0 - float64(l2) + 2*g4
	x3 := x0 - float64(i3) + 3*g4
	y3 := y0 - float64(j3) + 3*g4
	z3 := z0 - float64(k3) + 3*g4
	w3 := w0 - float64(l3) + 3*g4
	x4 := x0 - 1 + 4*g4
	y4 := y0 - 1 + 4*g4
	z4 := z0 - 1 + 4*g4
	w4 := w0 - 1 + 4*g4

	ii := i & 255
	jj := j & 255
	kk := k & 255
	ll := l & 255
	p := s.perm
	gi0 := p.At(ii+p.At(jj+p.At(kk+p.At(ll)))) % 32
	gi1 := p.At(ii+i1+p.At(jj+j1+p.At(kk+k1+p.At(ll+l1)))) % 32
	gi2 := p.At(ii+i2+p.At(jj+j2+p.At(kk+k2+p.At(ll+l2)))) % 32
	gi3 := p.At(ii+i3+p.At(jj+j3+p.At(kk+k3+p.At(ll+l3)))) % 32
	gi4 := p.At(ii+1+p.At(jj+1+p.At(kk+1+p.At(ll+1)))) % 32

	if t0 := 0.6 - x0*x0 - y0*y0 - z0*z0 - w0*w0; t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot4(&grad4[gi0], x0, y0, z0, w0)
	}
	if t1 := 0.6 - x1*x1 - y1*y1 - z1*z1 - w1*w1; t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot4(&grad4[gi1], x1, y1, z1, w1)
	}
	if t2 := 0.6 - x2*x2 - y2*y2 - z2*z2 - w2*w2; t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot4(&grad4[gi2], x2, y2, z2, w2)
	}
	if t3 := 0.6 - x3*x3 - y3*y3 - z3*z3 - w3*w3; t3 >= 0 {
		t3 *= t3
		n3 = t3 * t3 * dot4(&grad4[gi3], x3, y3, z3, w3)
	}
	if t4 := 0.6 - x4*x4 - y4*y4 - z4*z4 - w4*w4; t4 >= 0 {
		t4 *= t4
		n4 = t4 * t4 * dot4(&grad4[gi4], x4, y4, z4, w4)
	}

	return clamp(27*(n0+n1+n2+n3+n4), -1, 1)
}

// FBm2 — фрактальный шум из DefaultSimplexOctaves октав этого генератора
func (s *Simplex) FBm2(x, y float64) float64 {
	return s.fbm.Noise2(x, y)
}

// FBm3 — 3D вариант FBm2
func (s *Simplex) FBm3(x, y, z float64) float64 {
	return s.fbm.Noise3(x, y, z)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
