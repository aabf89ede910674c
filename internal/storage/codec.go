package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// tileCodec кодирует значения тайла как little-endian float64
// с префиксом количества и сжимает их zstd.
type tileCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newTileCodec() (*tileCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}
	return &tileCodec{enc: enc, dec: dec}, nil
}

// Encode возвращает сжатое представление значений
func (c *tileCodec) Encode(values []float64) []byte {
	return c.enc.EncodeAll(encodeValues(values), nil)
}

// Decode распаковывает тайл и сверяет количество значений с ключом
func (c *tileCodec) Decode(key TileKey, compressed []byte) ([]float64, error) {
	raw, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки тайла %s: %w", key, err)
	}

	values, err := decodeValues(raw)
	if err != nil {
		return nil, fmt.Errorf("повреждён тайл %s: %w", key, err)
	}
	if len(values) != key.Region.Len() {
		return nil, fmt.Errorf("повреждён тайл %s: %d значений вместо %d", key, len(values), key.Region.Len())
	}
	return values, nil
}

func (c *tileCodec) Close() {
	c.enc.Close()
	c.dec.Close()
}

// encodeValues: uint32 количество, затем биты float64
func encodeValues(values []float64) []byte {
	buf := make([]byte, 4+8*len(values))
	binary.LittleEndian.PutUint32(buf, uint32(len(values)))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[4+8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeValues(buf []byte) ([]float64, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("слишком короткие данные: %d байт", len(buf))
	}
	n := int(binary.LittleEndian.Uint32(buf))
	if len(buf) != 4+8*n {
		return nil, fmt.Errorf("ожидалось %d байт, получено %d", 4+8*n, len(buf))
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[4+8*i:]))
	}
	return values, nil
}
