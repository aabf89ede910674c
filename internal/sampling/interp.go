package sampling

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// bilerp интерполирует по x, затем по y
func bilerp(v00, v10, v01, v11, fx, fy float64) float64 {
	return lerp(fy, lerp(fx, v00, v10), lerp(fx, v01, v11))
}

// trilerp интерполирует две плоскости z билинейно, затем по z
func trilerp(v000, v100, v010, v110, v001, v101, v011, v111, fx, fy, fz float64) float64 {
	return lerp(fz, bilerp(v000, v100, v010, v110, fx, fy), bilerp(v001, v101, v011, v111, fx, fy))
}

// clamp01 защищает долю от выхода за [0, 1] из-за округления
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// floorDiv — целочисленное деление с округлением к минус бесконечности
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
