package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", formatUptime(5*time.Second))
	assert.Equal(t, "2м 3с", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1ч 0м 7с", formatUptime(time.Hour+7*time.Second))
	assert.Equal(t, "2д 1ч 0м 0с", formatUptime(49*time.Hour))
}

func TestProcessStats_Snapshot(t *testing.T) {
	ps := NewProcessStats()
	snap := ps.Snapshot()

	assert.Positive(t, snap.NumCPU)
	assert.Positive(t, snap.Goroutines)
	assert.Positive(t, snap.SysMB)
	assert.NotEmpty(t, snap.Uptime)
}
