package api

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/vec"
)

// queryFloat читает обязательный конечный float параметр
func queryFloat(c *gin.Context, key string) (float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", noise.ErrInvalidArgument, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: parameter %q must be a finite number", noise.ErrInvalidArgument, key)
	}
	return v, nil
}

// queryInt читает целый параметр; при отсутствии возвращает def
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q must be an integer", noise.ErrInvalidArgument, key)
	}
	return v, nil
}

func requireInt(c *gin.Context, key string) (int, error) {
	if _, ok := c.GetQuery(key); !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", noise.ErrInvalidArgument, key)
	}
	return queryInt(c, key, 0)
}

// regionQuery — границы области из параметров min_x..max_z.
// Область трёхмерная, если задан хотя бы один из min_z/max_z.
type regionQuery struct {
	is3D bool
	r3   sampling.Region3
}

func parseRegion(c *gin.Context, maxPoints int) (regionQuery, error) {
	var q regionQuery
	var err error
	var b [4]int
	for i, key := range []string{"min_x", "min_y", "max_x", "max_y"} {
		if b[i], err = requireInt(c, key); err != nil {
			return q, err
		}
	}
	q.r3.Min = vec.Vec3{X: b[0], Y: b[1]}
	q.r3.Max = vec.Vec3{X: b[2], Y: b[3]}

	_, hasMinZ := c.GetQuery("min_z")
	_, hasMaxZ := c.GetQuery("max_z")
	if hasMinZ || hasMaxZ {
		q.is3D = true
		if q.r3.Min.Z, err = requireInt(c, "min_z"); err != nil {
			return q, err
		}
		if q.r3.Max.Z, err = requireInt(c, "max_z"); err != nil {
			return q, err
		}
	}

	if err := q.r3.Validate(); err != nil {
		return q, err
	}

	// Размер считаем во float64, чтобы не переполниться на огромных границах
	points := 1.0
	for _, d := range [3][2]int{
		{q.r3.Min.X, q.r3.Max.X},
		{q.r3.Min.Y, q.r3.Max.Y},
		{q.r3.Min.Z, q.r3.Max.Z},
	} {
		points *= float64(d[1]) - float64(d[0]) + 1
		if points > float64(maxPoints) {
			return q, fmt.Errorf("%w: region exceeds %d points", noise.ErrInvalidArgument, maxPoints)
		}
	}
	return q, nil
}

func (q regionQuery) region2() sampling.Region2 {
	return q.r3.Flat()
}
