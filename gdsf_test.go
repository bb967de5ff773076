package polycache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGDSFSizePreference(t *testing.T) {
	c, err := NewGDSF[string, int](100, WithMaxSize(100))
	require.NoError(t, err)

	small := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for _, k := range small {
		_, err := c.PutSized(k, 0, 1) // priority 1/1 + 0 = 1.0
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(10), c.Bytes())

	// 95 bytes fits the budget, so no ValueTooLarge; room is made by
	// evicting small entries until the total holds
	ev, err := c.PutSized("X", 0, 95)
	require.NoError(t, err)
	assert.NotEmpty(t, ev)
	for _, e := range ev {
		assert.Contains(t, small, e.Key)
	}
	assert.True(t, c.Contains("X"))
	assert.LessOrEqual(t, c.Bytes(), uint64(100))

	// the big low-priority newcomer is the first victim of the next insert
	ev, err = c.PutSized("Y", 0, 1)
	require.NoError(t, err)
	require.NotEmpty(t, ev)
	assert.Equal(t, "X", ev[0].Key)
	assert.True(t, c.Contains("Y"))
}

func TestGDSFZeroSizeRejected(t *testing.T) {
	c, err := NewGDSF[string, int](4)
	require.NoError(t, err)
	_, err = c.PutSized("k", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.False(t, c.Contains("k"))
}

func TestGDSFAgeMonotone(t *testing.T) {
	c, err := NewGDSF[int, int](4, WithMaxSize(64))
	require.NoError(t, err)
	prev := c.Age()
	for i := 0; i < 200; i++ {
		c.PutSized(i, i, uint64(1+i%7))
		if i%3 == 0 {
			c.Get(i)
		}
		require.GreaterOrEqual(t, c.Age(), prev)
		prev = c.Age()
	}
}

func TestGDSFFrequencyBeatsSizePenalty(t *testing.T) {
	c, err := NewGDSF[string, int](3)
	require.NoError(t, err)
	c.PutSized("big", 1, 8) // 1/8
	c.PutSized("a", 2, 1)   // 1
	for i := 0; i < 16; i++ {
		c.Get("big") // 17/8, earns its keep
	}
	c.PutSized("b", 3, 1) // 1

	ev, err := c.PutSized("d", 4, 1)
	require.NoError(t, err)
	require.Len(t, ev, 1)
	assert.Equal(t, "a", ev[0].Key)
	assert.True(t, c.Contains("big"))
}

func TestGDSFTieBreaksFIFO(t *testing.T) {
	c, err := NewGDSF[string, int](2)
	require.NoError(t, err)
	c.PutSized("a", 1, 4)
	c.PutSized("b", 2, 4) // same (freq, size, age), same bucket

	ev, err := c.PutSized("c", 3, 4)
	require.NoError(t, err)
	require.Len(t, ev, 1)
	assert.Equal(t, "a", ev[0].Key)
}

func TestGDSFReplaceResizeRekeys(t *testing.T) {
	c, err := NewGDSF[string, int](4)
	require.NoError(t, err)
	c.PutSized("a", 1, 1)
	c.Get("a") // freq 2, prio 2.0
	require.Equal(t, float64(2), c.a.at(c.idx["a"]).prio)

	// same frequency, four times the size
	_, err = c.PutSized("a", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.a.at(c.idx["a"]).freq)
	assert.Equal(t, 0.5, c.a.at(c.idx["a"]).prio)
	assert.Equal(t, uint64(4), c.Bytes())
}

func TestGDSFInitialAge(t *testing.T) {
	c, err := NewGDSF[string, int](4, WithInitialAge(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Age())
	c.PutSized("a", 1, 2)
	assert.Equal(t, 3.0, c.a.at(c.idx["a"]).prio)
}

func TestGDSFClearKeepsAge(t *testing.T) {
	c, err := NewGDSF[int, int](2)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		c.Put(i, i)
	}
	age := c.Age()
	require.NotZero(t, age)
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, age, c.Age())

	_, err = c.Put(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestGDSFEvictionConservation(t *testing.T) {
	c, err := NewGDSF[string, int](8, WithMaxSize(32))
	require.NoError(t, err)
	inserts, removes, evictions := 0, 0, 0
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("k%d", i)
		ev, err := c.PutSized(k, i, uint64(1+i%5))
		require.NoError(t, err)
		inserts++
		evictions += len(ev)
		if i%11 == 0 {
			if _, ok := c.Del(fmt.Sprintf("k%d", i-4)); ok {
				removes++
			}
		}
	}
	assert.Equal(t, inserts-removes-evictions, c.Len())
}
