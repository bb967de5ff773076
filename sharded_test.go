package polycache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedConcurrentInserts(t *testing.T) {
	c, err := NewSharded[string, int](PolicyLRU, 16, 1600)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for th := 0; th < 8; th++ {
		wg.Add(1)
		go func(th int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				k := fmt.Sprintf("thread_%d_key_%d", th, j)
				if _, err := c.Put(k, j); err != nil {
					t.Error(err)
					return
				}
				c.Get(k)
			}
		}(th)
	}
	wg.Wait()

	assert.Equal(t, 1600, c.Len())
	assert.False(t, c.Empty())
	assert.Equal(t, 1600, c.Cap())
}

func TestShardedCapacitySplit(t *testing.T) {
	// 100 over 16 shards: shard 0 absorbs the remainder
	c, err := NewSharded[string, int](PolicyLRU, 16, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Cap())
	assert.Equal(t, 6+4, c.insts[0].Cap())
	for i := 1; i < 16; i++ {
		assert.Equal(t, 6, c.insts[i].Cap())
	}
}

func TestShardedByteBudgetSplit(t *testing.T) {
	c, err := NewSharded[string, []byte](PolicyGDSF, 4, 40, WithMaxSize(103))
	require.NoError(t, err)
	assert.Equal(t, uint64(25+3), c.insts[0].(*GDSF[string, []byte]).maxSize)
	for i := 1; i < 4; i++ {
		assert.Equal(t, uint64(25), c.insts[i].(*GDSF[string, []byte]).maxSize)
	}
}

func TestShardedNonPowerOfTwo(t *testing.T) {
	c, err := NewSharded[int, int](PolicyLFU, 5, 50)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		_, err := c.Put(i, i)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.Len(), 50)
	for i := 195; i < 200; i++ {
		// last inserts landed somewhere
		if v, ok := c.Get(i); ok {
			assert.Equal(t, i, v)
		}
	}
}

func TestShardedGetWith(t *testing.T) {
	c, err := NewSharded[string, []int](PolicyLRU, 4, 16)
	require.NoError(t, err)
	c.Put("k", []int{1, 2})

	sum := 0
	ok := c.GetWith("k", func(v *[]int) {
		for _, x := range *v {
			sum += x
		}
	})
	require.True(t, ok)
	assert.Equal(t, 3, sum)

	assert.False(t, c.GetWith("missing", func(v *[]int) { t.Fatal("called on miss") }))
}

func TestShardedUpdate(t *testing.T) {
	c, err := NewSharded[string, int](PolicySLRU, 4, 16)
	require.NoError(t, err)
	c.Put("k", 1)
	require.True(t, c.Update("k", func(v *int) { *v = 7 }))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestShardedHasher(t *testing.T) {
	// pin every key to shard 0 and make sure operations still work
	c, err := NewSharded[string, int](PolicyLRU, 4, 40)
	require.NoError(t, err)
	c.Hasher(func(string) uint64 { return 0 })

	for i := 0; i < 20; i++ {
		_, err := c.Put(fmt.Sprintf("k%d", i), i)
		require.NoError(t, err)
	}
	// shard 0 holds at most its 10 slots; every entry went through shard 0's engine
	assert.Equal(t, c.insts[0].Len(), c.Len())
	assert.LessOrEqual(t, c.Len(), c.insts[0].Cap())
}

func TestShardedClearAndStats(t *testing.T) {
	c, err := NewSharded[int, int](PolicyLFU, 8, 64)
	require.NoError(t, err)
	for i := 0; i < 32; i++ {
		c.Put(i, i)
	}
	for i := 0; i < 32; i++ {
		c.Get(i)
	}
	c.Get(1000)
	st := c.Stats()
	assert.Equal(t, uint64(32), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Empty())
	assert.Equal(t, uint64(0), c.Bytes())
}

func TestShardedDelAndPeekAndContains(t *testing.T) {
	c, err := NewSharded[string, int](PolicyLFUDA, 4, 16)
	require.NoError(t, err)
	c.Put("a", 1)

	v, ok := c.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, c.Contains("a"))

	v, ok = c.Del("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, c.Contains("a"))
}

func TestShardedEvictionsSurface(t *testing.T) {
	c, err := NewSharded[string, int](PolicyLRU, 2, 2)
	require.NoError(t, err)
	c.Hasher(func(string) uint64 { return 1 })

	c.Put("a", 1)
	ev, err := c.Put("b", 2)
	require.NoError(t, err)
	require.Len(t, ev, 1)
	assert.Equal(t, "a", ev[0].Key)
}

func TestShardedInvalidConfig(t *testing.T) {
	_, err := NewSharded[string, int](PolicyLRU, 0, 16)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewSharded[string, int](PolicyLRU, 8, 4)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewSharded[string, int](PolicyLRU, 8, 16, WithMaxSize(4))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestShardedConcurrentMixed(t *testing.T) {
	for _, p := range []Policy{PolicyLRU, PolicySLRU, PolicyLFU, PolicyLFUDA, PolicyGDSF} {
		t.Run(p.String(), func(t *testing.T) {
			c, err := NewSharded[int, int](p, 8, 256, WithMaxSize(4096))
			require.NoError(t, err)

			var wg sync.WaitGroup
			for th := 0; th < 4; th++ {
				wg.Add(1)
				go func(th int) {
					defer wg.Done()
					for j := 0; j < 500; j++ {
						k := th*1000 + j%100
						switch j % 5 {
						case 0, 1:
							if _, err := c.PutSized(k, j, uint64(1+j%8)); err != nil {
								t.Error(err)
								return
							}
						case 2:
							c.Get(k)
						case 3:
							c.GetWith(k, func(v *int) { *v++ })
						case 4:
							c.Del(k)
						}
					}
				}(th)
			}
			wg.Wait()

			assert.LessOrEqual(t, c.Len(), 256)
			assert.LessOrEqual(t, c.Bytes(), uint64(4096))
		})
	}
}
