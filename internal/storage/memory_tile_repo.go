package storage

import (
	"context"
	"sync"
)

// MemoryTileRepo реализует TileRepo в памяти.
// Используется, когда путь к BadgerDB не задан, и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске!
type MemoryTileRepo struct {
	mu   sync.RWMutex
	data map[string][]float64
}

// NewMemoryTileRepo создает новый репозиторий тайлов в памяти.
func NewMemoryTileRepo() *MemoryTileRepo {
	return &MemoryTileRepo{
		data: make(map[string][]float64),
	}
}

// Save сохраняет копию значений.
func (r *MemoryTileRepo) Save(ctx context.Context, key TileKey, values []float64) error {
	if err := validateTile(key, values); err != nil {
		return err
	}

	// Проверяем контекст на отмену
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cp := make([]float64, len(values))
	copy(cp, values)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key.String()] = cp
	return nil
}

// Load возвращает копию сохранённых значений.
func (r *MemoryTileRepo) Load(ctx context.Context, key TileKey) ([]float64, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	values, ok := r.data[key.String()]
	if !ok {
		return nil, ErrTileNotFound
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return cp, nil
}

// Delete удаляет тайл.
func (r *MemoryTileRepo) Delete(ctx context.Context, key TileKey) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key.String())
	return nil
}

// Close ничего не делает.
func (r *MemoryTileRepo) Close() error {
	return nil
}

// Len возвращает количество тайлов.
func (r *MemoryTileRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
