package storage

import "github.com/annel0/procgen/internal/config"

// Open выбирает реализацию кеша по конфигурации:
// BadgerDB при заданном пути или in_memory, иначе MemoryTileRepo.
// Если настроен Redis, он становится горячим уровнем перед выбранным хранилищем.
func Open(cfg config.StorageConfig) (TileRepo, error) {
	var cold TileRepo
	if cfg.Path == "" && !cfg.InMemory {
		cold = NewMemoryTileRepo()
	} else {
		store, err := NewTileStore(cfg)
		if err != nil {
			return nil, err
		}
		cold = store
	}

	if cfg.Redis.GetAddr() == "" {
		return cold, nil
	}

	repo, err := NewRedisTileRepo(cfg.Redis, cold)
	if err != nil {
		cold.Close()
		return nil, err
	}
	return repo, nil
}

var (
	_ TileRepo = (*TileStore)(nil)
	_ TileRepo = (*MemoryTileRepo)(nil)
	_ TileRepo = (*RedisTileRepo)(nil)
)
