package vec

// Vec2 представляет 2D координаты точки решётки
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LessOrEqual проверяет, что обе координаты не больше координат other
func (v Vec2) LessOrEqual(other Vec2) bool {
	return v.X <= other.X && v.Y <= other.Y
}
