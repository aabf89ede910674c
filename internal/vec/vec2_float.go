package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Split разделяет точку на ячейку решётки (округление вниз) и смещение
// внутри неё в [0, 1)
func (v Vec2Float) Split() (Vec2, Vec2Float) {
	fx, fy := math.Floor(v.X), math.Floor(v.Y)
	return Vec2{X: int(fx), Y: int(fy)}, Vec2Float{X: v.X - fx, Y: v.Y - fy}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}
