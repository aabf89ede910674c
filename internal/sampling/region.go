package sampling

import (
	"fmt"

	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/vec"
)

// Region2 — прямоугольная область с включительными границами.
// Значения в плоском массиве идут построчно: x меняется быстрее всего.
type Region2 struct {
	Min vec.Vec2 `json:"min" yaml:"min"`
	Max vec.Vec2 `json:"max" yaml:"max"`
}

// NewRegion2 создаёт и проверяет область
func NewRegion2(min, max vec.Vec2) (Region2, error) {
	r := Region2{Min: min, Max: max}
	return r, r.Validate()
}

// Validate возвращает ошибку, если Min > Max по какой-либо оси
func (r Region2) Validate() error {
	if !r.Min.LessOrEqual(r.Max) {
		return fmt.Errorf("%w: malformed region min=%v max=%v", noise.ErrInvalidArgument, r.Min, r.Max)
	}
	return nil
}

// Size возвращает размеры области по осям
func (r Region2) Size() vec.Vec2 {
	return vec.Vec2{X: r.Max.X - r.Min.X + 1, Y: r.Max.Y - r.Min.Y + 1}
}

// Len возвращает число точек в области
func (r Region2) Len() int {
	s := r.Size()
	return s.X * s.Y
}

// Contains проверяет, лежит ли точка в области
func (r Region2) Contains(p vec.Vec2) bool {
	return r.Min.LessOrEqual(p) && p.LessOrEqual(r.Max)
}

// ContainsRegion проверяет, что other целиком внутри r
func (r Region2) ContainsRegion(other Region2) bool {
	return r.Contains(other.Min) && r.Contains(other.Max)
}

// Index возвращает индекс точки в плоском массиве области
func (r Region2) Index(p vec.Vec2) int {
	return (p.Y-r.Min.Y)*(r.Max.X-r.Min.X+1) + (p.X - r.Min.X)
}

// Lift превращает область в трёхмерную толщиной в один слой z=0
func (r Region2) Lift() Region3 {
	return Region3{Min: vec.FromVec2Z(r.Min, 0), Max: vec.FromVec2Z(r.Max, 0)}
}

// Region3 — параллелепипед с включительными границами.
// Порядок в плоском массиве: x, затем y, затем z.
type Region3 struct {
	Min vec.Vec3 `json:"min" yaml:"min"`
	Max vec.Vec3 `json:"max" yaml:"max"`
}

// NewRegion3 создаёт и проверяет область
func NewRegion3(min, max vec.Vec3) (Region3, error) {
	r := Region3{Min: min, Max: max}
	return r, r.Validate()
}

// Validate возвращает ошибку, если Min > Max по какой-либо оси
func (r Region3) Validate() error {
	if !r.Min.LessOrEqual(r.Max) {
		return fmt.Errorf("%w: malformed region min=%v max=%v", noise.ErrInvalidArgument, r.Min, r.Max)
	}
	return nil
}

// Size возвращает размеры области по осям
func (r Region3) Size() vec.Vec3 {
	return vec.Vec3{X: r.Max.X - r.Min.X + 1, Y: r.Max.Y - r.Min.Y + 1, Z: r.Max.Z - r.Min.Z + 1}
}

// Len возвращает число точек в области
func (r Region3) Len() int {
	s := r.Size()
	return s.X * s.Y * s.Z
}

// Contains проверяет, лежит ли точка в области
func (r Region3) Contains(p vec.Vec3) bool {
	return r.Min.LessOrEqual(p) && p.LessOrEqual(r.Max)
}

// ContainsRegion проверяет, что other целиком внутри r
func (r Region3) ContainsRegion(other Region3) bool {
	return r.Contains(other.Min) && r.Contains(other.Max)
}

// Index возвращает индекс точки в плоском массиве области
func (r Region3) Index(p vec.Vec3) int {
	s := r.Size()
	return (p.X - r.Min.X) + s.X*((p.Y-r.Min.Y)+s.Y*(p.Z-r.Min.Z))
}

// Flat отбрасывает ось z
func (r Region3) Flat() Region2 {
	return Region2{Min: r.Min.ToVec2(), Max: r.Max.ToVec2()}
}
