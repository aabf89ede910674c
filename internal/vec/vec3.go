package vec

import "math"

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ToVec2 преобразует Vec3 в Vec2, игнорируя координату Z
func (v Vec3) ToVec2() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// FromVec2Z создает Vec3 из Vec2, используя заданную Z координату
func FromVec2Z(v Vec2, z int) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}

// LessOrEqual проверяет, что все координаты не больше координат other
func (v Vec3) LessOrEqual(other Vec3) bool {
	return v.X <= other.X && v.Y <= other.Y && v.Z <= other.Z
}

// IsFinite проверяет, что ни одна компонента не равна NaN или Inf
func (v Vec3Float) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
