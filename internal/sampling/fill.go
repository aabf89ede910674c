package sampling

import (
	"context"

	"github.com/annel0/procgen/internal/noise"
)

// Fill2 вычисляет n во всех целых точках области без прореживания.
// workers <= 0 — по числу процессоров.
func Fill2(ctx context.Context, n noise.Noise, r Region2, workers int) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	size := r.Size()
	out := make([]float64, size.X*size.Y)
	err := parallelRows(ctx, workers, size.Y, func(j int) {
		y := float64(r.Min.Y + j)
		row := out[j*size.X : (j+1)*size.X]
		for i := range row {
			row[i] = n.Noise2(float64(r.Min.X+i), y)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fill3 — трёхмерный вариант Fill2
func Fill3(ctx context.Context, n noise.Noise, r Region3, workers int) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	size := r.Size()
	out := make([]float64, size.X*size.Y*size.Z)
	err := parallelRows(ctx, workers, size.Y*size.Z, func(yz int) {
		y := float64(r.Min.Y + yz%size.Y)
		z := float64(r.Min.Z + yz/size.Y)
		row := out[yz*size.X : (yz+1)*size.X]
		for i := range row {
			row[i] = n.Noise3(float64(r.Min.X+i), y, z)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
