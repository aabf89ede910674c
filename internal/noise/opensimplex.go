package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// OpenSimplex — адаптер над github.com/ojrac/opensimplex-go
type OpenSimplex struct {
	n opensimplex.Noise
}

// NewOpenSimplex создаёт адаптер OpenSimplex
func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{n: opensimplex.New(seed)}
}

func (o *OpenSimplex) Noise2(x, y float64) float64 {
	return clamp(o.n.Eval2(x, y), -1, 1)
}

func (o *OpenSimplex) Noise3(x, y, z float64) float64 {
	return clamp(o.n.Eval3(x, y, z), -1, 1)
}

func (o *OpenSimplex) Noise4(x, y, z, w float64) float64 {
	return clamp(o.n.Eval4(x, y, z, w), -1, 1)
}
