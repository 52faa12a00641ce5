package debugui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameHistory(t *testing.T) {
	h := NewFrameHistory(3)
	assert.Zero(t, h.Average())

	h.Push(0.010)
	assert.InDelta(t, 10.0, h.Average(), 1e-4)

	h.Push(0.020)
	h.Push(0.030)
	assert.InDelta(t, 20.0, h.Average(), 1e-4)

	// the oldest sample is overwritten once the ring is full
	h.Push(0.040)
	assert.InDelta(t, 30.0, h.Average(), 1e-4)
}

func TestFrameHistoryMinimumSize(t *testing.T) {
	h := NewFrameHistory(0)
	h.Push(0.005)
	h.Push(0.007)
	assert.InDelta(t, 7.0, h.Average(), 1e-4)
}
