package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/logging"
)

// TileStore хранит вычисленные области в BadgerDB.
type TileStore struct {
	db      *badger.DB
	codec   *tileCodec
	mutex   sync.RWMutex
	isReady bool
	logger  *logging.Logger
}

// NewTileStore открывает хранилище тайлов.
// При cfg.InMemory база живёт только в памяти процесса.
func NewTileStore(cfg config.StorageConfig) (*TileStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("не указан путь к хранилищу тайлов")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	codec, err := newTileCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	logger := logging.GetStorageLogger()
	logger.Info("Хранилище тайлов открыто (in-memory=%v, path=%q)", cfg.InMemory, cfg.Path)

	return &TileStore{
		db:      db,
		codec:   codec,
		isReady: true,
		logger:  logger,
	}, nil
}

// Close закрывает хранилище
func (ts *TileStore) Close() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if !ts.isReady {
		return nil
	}

	ts.isReady = false
	ts.codec.Close()
	return ts.db.Close()
}

// Save сохраняет значения области
func (ts *TileStore) Save(ctx context.Context, key TileKey, values []float64) error {
	if err := validateTile(key, values); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	if !ts.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data := ts.codec.Encode(values)

	err := ts.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.String()), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения тайла %s: %w", key, err)
	}

	ts.logger.Debug("Тайл %s сохранён (%d значений, %d байт)", key, len(values), len(data))
	return nil
}

// Load загружает значения области
func (ts *TileStore) Load(ctx context.Context, key TileKey) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	if !ts.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var compressed []byte
	err := ts.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrTileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тайла %s: %w", key, err)
	}

	return ts.codec.Decode(key, compressed)
}

// Delete удаляет тайл
func (ts *TileStore) Delete(ctx context.Context, key TileKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	if !ts.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	return ts.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key.String()))
	})
}
