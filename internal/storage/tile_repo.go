package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/sampling"
)

// ErrTileNotFound возвращается при промахе кеша тайлов.
var ErrTileNotFound = errors.New("тайл не найден")

// TileKey идентифицирует сохранённую область конкретного генератора.
// 2D области хранятся с Min.Z == Max.Z == 0 и Dims == 2: срез z=0 трёхмерного
// шума в общем случае не совпадает с двумерным шумом.
type TileKey struct {
	Generator string
	Dims      int
	Region    sampling.Region3
}

// Key2 строит ключ для двумерной области.
func Key2(generator string, r sampling.Region2) TileKey {
	return TileKey{Generator: generator, Dims: 2, Region: r.Lift()}
}

// Key3 строит ключ для трёхмерной области.
func Key3(generator string, r sampling.Region3) TileKey {
	return TileKey{Generator: generator, Dims: 3, Region: r}
}

// String возвращает ключ в формате BadgerDB.
func (k TileKey) String() string {
	r := k.Region
	return fmt.Sprintf("tile:%s:%dd:%d:%d:%d:%d:%d:%d",
		k.Generator, k.Dims, r.Min.X, r.Min.Y, r.Min.Z, r.Max.X, r.Max.Y, r.Max.Z)
}

// TileRepo определяет интерфейс кеша вычисленных областей.
type TileRepo interface {
	// Save сохраняет значения области.
	// Количество значений должно совпадать с размером области.
	Save(ctx context.Context, key TileKey, values []float64) error

	// Load загружает значения области.
	// Возвращает ErrTileNotFound, если тайл не сохранён.
	Load(ctx context.Context, key TileKey) ([]float64, error)

	// Delete удаляет тайл. Отсутствующий тайл не считается ошибкой.
	Delete(ctx context.Context, key TileKey) error

	// Close закрывает хранилище.
	Close() error
}

func validateTile(key TileKey, values []float64) error {
	if key.Generator == "" {
		return fmt.Errorf("%w: пустое имя генератора", noise.ErrInvalidArgument)
	}
	if key.Dims != 2 && key.Dims != 3 {
		return fmt.Errorf("%w: неверная размерность тайла: %d", noise.ErrInvalidArgument, key.Dims)
	}
	if err := key.Region.Validate(); err != nil {
		return err
	}
	if want := key.Region.Len(); len(values) != want {
		return fmt.Errorf("%w: размер тайла %d не совпадает с областью (%d)", noise.ErrInvalidArgument, len(values), want)
	}
	return nil
}
