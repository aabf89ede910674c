// Package voronoi ищет ближайшие «точки-признаки» (feature points) ячеистого
// шума Уорли. Точки детерминированно рассыпаны по единичным ячейкам решётки:
// их число и положение выводятся из хеша координат ячейки.
package voronoi

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/vec"
)

const (
	// MaxPoints — максимальное число возвращаемых ближайших точек
	MaxPoints = 5

	// DensityAdjustment приводит среднюю плотность точек к одной на единицу площади
	DensityAdjustment = 0.398150

	// maxRings ограничивает поиск по кольцам ячеек вокруг центральной
	maxRings = 32
)

// poissonCount — число точек в ячейке по старшему байту хеша (0..5)
var poissonCount = [256]uint8{
	2, 1, 2, 3, 2, 1, 1, 1, 2, 1, 1, 1, 2, 2, 0, 1, 3, 1, 0, 2, 1, 0, 2, 0, 1, 0, 2, 1, 2, 2, 2, 4,
	1, 2, 2, 3, 0, 3, 1, 0, 0, 3, 2, 0, 0, 0, 2, 0, 1, 1, 1, 2, 3, 2, 0, 0, 5, 2, 1, 3, 3, 1, 0, 0,
	1, 0, 2, 1, 1, 0, 0, 3, 0, 0, 1, 0, 0, 0, 3, 0, 2, 0, 0, 1, 0, 1, 3, 0, 4, 0, 1, 1, 2, 2, 1, 1,
	2, 0, 0, 0, 0, 0, 2, 2, 0, 0, 3, 0, 1, 2, 1, 5, 0, 1, 1, 2, 0, 2, 1, 0, 1, 1, 0, 4, 2, 1, 2, 1,
	0, 0, 1, 1, 0, 2, 3, 1, 3, 2, 3, 2, 0, 1, 2, 4, 0, 2, 0, 0, 1, 1, 2, 0, 2, 1, 2, 2, 0, 1, 3, 1,
	3, 2, 1, 1, 1, 1, 0, 1, 1, 1, 0, 2, 0, 1, 0, 0, 2, 2, 0, 0, 3, 4, 3, 4, 0, 1, 1, 1, 3, 1, 2, 1,
	3, 2, 4, 3, 2, 2, 1, 1, 1, 2, 1, 1, 0, 0, 1, 1, 2, 4, 1, 0, 2, 1, 0, 2, 1, 1, 1, 1, 0, 1, 1, 1,
	2, 2, 1, 1, 1, 0, 3, 1, 0, 1, 1, 0, 3, 2, 0, 4, 0, 2, 3, 3, 1, 1, 1, 5, 1, 1, 0, 1, 2, 1, 1, 2,
}

// Feature — найденная точка-признак
type Feature struct {
	// Distance — расстояние по выбранной метрике (для Euclidean — квадрат)
	Distance float64 `json:"distance"`
	// Delta — вектор от точки запроса до признака
	Delta vec.Vec2Float `json:"delta"`
	// ID — уникальный идентификатор признака
	ID uint32 `json:"id"`
}

// Position восстанавливает абсолютное положение признака по точке запроса
func (f Feature) Position(at vec.Vec2Float) vec.Vec2Float {
	return at.Add(f.Delta)
}

// Voronoi ищет ближайшие точки-признаки. Неизменяем после создания.
type Voronoi struct {
	offset vec.Vec2Float
	metric Metric
}

// Option настраивает Voronoi
type Option func(*Voronoi)

// WithMetric задаёт метрику расстояния
func WithMetric(m Metric) Option {
	return func(v *Voronoi) {
		v.metric = m
	}
}

// New создаёт поиск с решёткой, сдвинутой на случайное смещение из seed
func New(seed int64, opts ...Option) (*Voronoi, error) {
	rnd := rand.New(rand.NewSource(seed))
	v := &Voronoi{
		offset: vec.Vec2Float{X: rnd.Float64() * 1024, Y: rnd.Float64() * 1024},
		metric: Euclidean,
	}
	for _, opt := range opts {
		opt(v)
	}
	if !v.metric.valid() {
		return nil, fmt.Errorf("%w: unknown metric %d", noise.ErrInvalidArgument, v.metric)
	}
	return v, nil
}

// Metric возвращает используемую метрику
func (v *Voronoi) Metric() Metric { return v.metric }

// topN хранит до n ближайших признаков по возрастанию расстояния
type topN struct {
	items [MaxPoints]Feature
	n     int
}

func (t *topN) worst() float64 {
	return t.items[t.n-1].Distance
}

// insert вставляет признак, если он ближе худшего. Равные расстояния
// остаются после уже найденных.
func (t *topN) insert(f Feature) {
	if f.Distance >= t.worst() {
		return
	}
	i := t.n - 1
	for i > 0 && f.Distance < t.items[i-1].Distance {
		t.items[i] = t.items[i-1]
		i--
	}
	t.items[i] = f
}

// ClosestPoints возвращает n ближайших к at признаков по возрастанию расстояния.
// 1 <= n <= MaxPoints.
func (v *Voronoi) ClosestPoints(at vec.Vec2Float, n int) ([]Feature, error) {
	if n < 1 || n > MaxPoints {
		return nil, fmt.Errorf("%w: number of points must be in [1, %d], got %d", noise.ErrInvalidArgument, MaxPoints, n)
	}

	// Переходим в пространство решётки
	p := at.Mul(DensityAdjustment).Add(v.offset)
	cell, frac := p.Split()
	cx, cy := cell.X, cell.Y
	fx, fy := frac.X, frac.Y

	top := topN{n: n}
	for i := 0; i < n; i++ {
		top.items[i].Distance = math.Inf(1)
	}

	// Центральная ячейка всегда проверяется
	v.addCell(&top, p, cx, cy)

	// Соседи по рёбрам, затем по углам: ячейка пропускается, если даже её
	// ближайшая к точке граница дальше худшего из найденных
	for _, d := range ringOne {
		if v.cellBound(fx, fy, d[0], d[1]) < top.worst() {
			v.addCell(&top, p, cx+d[0], cy+d[1])
		}
	}

	// Редкий случай: в окрестности 3x3 не хватило точек
	for r := 2; r <= maxRings; r++ {
		if v.metric.Distance(ringGap(fx, fy, r), 0) >= top.worst() {
			break
		}
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absInt(dx) != r && absInt(dy) != r {
					continue
				}
				if v.cellBound(fx, fy, dx, dy) < top.worst() {
					v.addCell(&top, p, cx+dx, cy+dy)
				}
			}
		}
	}

	// Обратно в исходный масштаб
	distScale := v.metric.scaleFactor(1 / DensityAdjustment)
	out := make([]Feature, 0, n)
	for i := 0; i < n; i++ {
		f := top.items[i]
		if math.IsInf(f.Distance, 1) {
			break
		}
		f.Delta = f.Delta.Mul(1 / DensityAdjustment)
		f.Distance *= distScale
		out = append(out, f)
	}
	return out, nil
}

// ringOne — порядок обхода соседей: сначала четыре по рёбрам, затем углы
var ringOne = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// cellBound — нижняя оценка расстояния от точки (fx, fy) внутри центральной
// ячейки до ячейки со смещением (dx, dy)
func (v *Voronoi) cellBound(fx, fy float64, dx, dy int) float64 {
	return v.metric.Distance(axisGap(fx, dx), axisGap(fy, dy))
}

func axisGap(f float64, d int) float64 {
	switch {
	case d < 0:
		return f + float64(-d-1)
	case d > 0:
		return (1 - f) + float64(d-1)
	default:
		return 0
	}
}

// ringGap — расстояние до ближайшей ячейки кольца r по одной оси
func ringGap(fx, fy float64, r int) float64 {
	return math.Min(math.Min(axisGap(fx, -r), axisGap(fx, r)), math.Min(axisGap(fy, -r), axisGap(fy, r)))
}

// addCell генерирует признаки ячейки (cx, cy) и добавляет их в top
func (v *Voronoi) addCell(top *topN, p vec.Vec2Float, cx, cy int) {
	seed := 702395077*uint32(int32(cx)) + 915488749*uint32(int32(cy))
	count := int(poissonCount[seed>>24])
	seed = lcg(seed)

	for j := 0; j < count; j++ {
		id := seed
		seed = lcg(seed)
		px := (float64(seed) + 0.5) / 4294967296.0
		seed = lcg(seed)
		py := (float64(seed) + 0.5) / 4294967296.0
		seed = lcg(seed)

		delta := vec.Vec2Float{X: float64(cx) + px - p.X, Y: float64(cy) + py - p.Y}
		top.insert(Feature{
			Distance: v.metric.Distance(delta.X, delta.Y),
			Delta:    delta,
			ID:       id,
		})
	}
}

func lcg(s uint32) uint32 {
	return 1402024253*s + 586950981
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
