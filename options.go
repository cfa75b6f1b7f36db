package skiplist

import "log/slog"

type options[K any] struct {
	maxKey    *K
	logger    *slog.Logger
	seed      uint64
	seedFixed bool
}

// Option configures a SkipListMap at construction.
type Option[K any] func(*options[K])

// WithMaxKey anchors the tail at key instead of +inf. Every key stored in
// the list must then compare strictly below key.
func WithMaxKey[K any](key K) Option[K] {
	return func(o *options[K]) {
		k := key
		o.maxKey = &k
	}
}

// WithLogger sets the logger used for diagnostics. A nil logger disables
// logging, which is also the default.
func WithLogger[K any](logger *slog.Logger) Option[K] {
	return func(o *options[K]) {
		o.logger = logger
	}
}

// WithSeed fixes the seed of the level generator, making node heights
// reproducible for a given sequence of inserts.
func WithSeed[K any](seed uint64) Option[K] {
	return func(o *options[K]) {
		o.seed = seed
		o.seedFixed = true
	}
}

func buildOptions[K any](opts []Option[K]) options[K] {
	var o options[K]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
