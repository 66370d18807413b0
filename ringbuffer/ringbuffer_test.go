package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopPreservesOrder(t *testing.T) {
	rb := New(4)
	require.True(t, rb.TryPush(1.0))
	require.True(t, rb.TryPush(2.0))
	require.True(t, rb.TryPush(3.0))

	v, ok := rb.TryPop()
	require.True(t, ok)
	assert.Equal(t, float32(1.0), v)

	v, ok = rb.TryPop()
	require.True(t, ok)
	assert.Equal(t, float32(2.0), v)
}

func TestPushDropsNewestWhenFull(t *testing.T) {
	rb := New(2)
	require.True(t, rb.TryPush(1.0))
	require.True(t, rb.TryPush(2.0))
	assert.False(t, rb.TryPush(3.0))

	v, ok := rb.TryPop()
	require.True(t, ok)
	assert.Equal(t, float32(1.0), v)
}

func TestPopOnEmptyReturnsFalse(t *testing.T) {
	rb := New(4)
	_, ok := rb.TryPop()
	assert.False(t, ok)
}

func TestDrainIntoCollectsAvailableSamples(t *testing.T) {
	rb := New(8)
	for i := 0; i < 5; i++ {
		rb.TryPush(float32(i))
	}

	dst := make([]float32, 10)
	n := rb.DrainInto(dst)
	assert.Equal(t, 5, n)
	assert.Equal(t, []float32{0, 1, 2, 3, 4}, dst[:n])
	assert.Equal(t, 0, rb.Len())
}

func TestCapacityAndLen(t *testing.T) {
	rb := New(16)
	assert.Equal(t, 16, rb.Capacity())
	rb.TryPush(1.0)
	assert.Equal(t, 1, rb.Len())
}
