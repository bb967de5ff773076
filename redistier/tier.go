package redistier

import (
	"context"

	"github.com/orca-zhang/polycache"
	"github.com/pkg/errors"
)

// Tier is the two-level cache: mem in front, store behind. Any
// polycache engine or Sharded facade over string keys and byte values
// works as the front; locking is whatever the front provides, the Tier
// itself holds no state of its own.
type Tier struct {
	mem   polycache.Cache[string, []byte]
	store Store
}

func New(mem polycache.Cache[string, []byte], store Store) *Tier {
	return &Tier{mem: mem, store: store}
}

// Put admits the value to the memory level and spills whatever that
// displaces to the store. A value too large for the memory budget skips
// straight to the store.
func (t *Tier) Put(ctx context.Context, key string, val []byte) error {
	ev, err := t.mem.PutSized(key, val, sizeOf(val))
	if errors.Is(err, polycache.ErrValueTooLarge) {
		return t.store.Set(ctx, key, val)
	}
	if err != nil {
		return err
	}
	for _, e := range ev {
		if serr := t.store.Set(ctx, e.Key, e.Value); serr != nil {
			return serr
		}
	}
	return nil
}

// Get serves from memory when it can, otherwise falls back to the store
// and re-admits the value, spilling anything the re-admission displaces.
func (t *Tier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := t.mem.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := t.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	ev, perr := t.mem.PutSized(key, v, sizeOf(v))
	if perr == nil {
		for _, e := range ev {
			if serr := t.store.Set(ctx, e.Key, e.Value); serr != nil {
				return v, true, serr
			}
		}
	}
	return v, true, nil
}

// Del removes the key from both levels.
func (t *Tier) Del(ctx context.Context, key string) error {
	t.mem.Del(key)
	return t.store.Del(ctx, key)
}

// sizeOf charges at least one byte so empty values still occupy a slot
func sizeOf(val []byte) uint64 {
	if len(val) == 0 {
		return 1
	}
	return uint64(len(val))
}
