package noise

// grad3 — 12 направлений градиента (середины рёбер куба).
// Общая неизменяемая таблица для Perlin и Simplex.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Perlin — градиентный шум Перлина (improved, с квинтической кривой).
// Решётка заворачивается по модулю размера сетки, поэтому шум тайлится
// с периодом GridDim по каждой оси.
type Perlin struct {
	perm *PermutationTable
}

// NewPerlin создаёт шум Перлина с сеткой 256
func NewPerlin(seed int64) *Perlin {
	p, _ := NewPerlinWithGrid(seed, DefaultGridDim)
	return p
}

// NewPerlinWithGrid создаёт шум Перлина с заданным размером сетки (степень двойки)
func NewPerlinWithGrid(seed int64, gridDim int) (*Perlin, error) {
	perm, err := NewPermutationTable(seed, gridDim)
	if err != nil {
		return nil, err
	}
	return &Perlin{perm: perm}, nil
}

// GridDim возвращает период тайлинга
func (p *Perlin) GridDim() int {
	return p.perm.Dim()
}

// Noise2 эквивалентен Noise3(x, y, 0)
func (p *Perlin) Noise2(x, y float64) float64 {
	return p.Noise3(x, y, 0)
}

// Noise3 возвращает значение в [-1, 1]
func (p *Perlin) Noise3(x, y, z float64) float64 {
	mask := p.perm.Mask()

	fx, fy, fz := fastFloor(x), fastFloor(y), fastFloor(z)
	xi, yi, zi := fx&mask, fy&mask, fz&mask

	x -= float64(fx)
	y -= float64(fy)
	z -= float64(fz)

	u, v, w := fade(x), fade(y), fade(z)

	a := p.perm.At(xi) + yi
	aa := p.perm.At(a) + zi
	ab := p.perm.At(a+1) + zi
	b := p.perm.At(xi+1) + yi
	ba := p.perm.At(b) + zi
	bb := p.perm.At(b+1) + zi

	n := lerp(w,
		lerp(v,
			lerp(u, gradDot(p.perm.At(aa), x, y, z), gradDot(p.perm.At(ba), x-1, y, z)),
			lerp(u, gradDot(p.perm.At(ab), x, y-1, z), gradDot(p.perm.At(bb), x-1, y-1, z))),
		lerp(v,
			lerp(u, gradDot(p.perm.At(aa+1), x, y, z-1), gradDot(p.perm.At(ba+1), x-1, y, z-1)),
			lerp(u, gradDot(p.perm.At(ab+1), x, y-1, z-1), gradDot(p.perm.At(bb+1), x-1, y-1, z-1))))

	return clamp(n, -1, 1)
}

func gradDot(hash int, x, y, z float64) float64 {
	g := &grad3[hash%12]
	return g[0]*x + g[1]*y + g[2]*z
}
