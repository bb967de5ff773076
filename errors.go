package polycache

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig reports an unusable constructor or size argument:
	// zero capacity, protected capacity above total, a zero byte budget, or
	// a zero entry size.
	ErrInvalidConfig = errors.New("polycache: invalid config")

	// ErrValueTooLarge reports a value whose size alone exceeds the byte
	// budget. The cache is left untouched, including any previous binding
	// under the same key.
	ErrValueTooLarge = errors.New("polycache: value too large")
)
