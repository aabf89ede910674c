package noise

import (
	"fmt"
	"math/rand"
)

// DefaultGridDim — размер таблицы перестановок по умолчанию
const DefaultGridDim = 256

// PermutationTable — случайная биекция на [0, dim), продублированная до 2*dim,
// чтобы индексы вида perm[perm[i]+j] не требовали взятия по модулю.
type PermutationTable struct {
	perm []int
	mask int
}

// NewPermutationTable строит таблицу из сида перемешиванием Фишера-Йетса.
// dim должен быть степенью двойки не меньше 2.
func NewPermutationTable(seed int64, dim int) (*PermutationTable, error) {
	if dim < 2 || dim&(dim-1) != 0 {
		return nil, fmt.Errorf("%w: grid dimension %d is not a power of two >= 2", ErrInvalidArgument, dim)
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := make([]int, 2*dim)
	for i := 0; i < dim; i++ {
		perm[i] = i
	}
	for i := dim - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	copy(perm[dim:], perm[:dim])

	return &PermutationTable{perm: perm, mask: dim - 1}, nil
}

// At возвращает элемент таблицы; i должен лежать в [0, 2*Dim())
func (p *PermutationTable) At(i int) int {
	return p.perm[i]
}

// Dim возвращает размер сетки
func (p *PermutationTable) Dim() int {
	return p.mask + 1
}

// Mask возвращает Dim()-1 для заворачивания координат решётки
func (p *PermutationTable) Mask() int {
	return p.mask
}
