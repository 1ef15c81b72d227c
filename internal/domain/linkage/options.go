package linkage

import "time"

// Option applies a configuration option to the Linker.
type Option func(*Linker)

// WithTolerance bounds the nearest-time price match. Non-positive values are
// ignored and the one-day default stands.
func WithTolerance(d time.Duration) Option {
	return func(l *Linker) {
		if d > 0 {
			l.tolerance = d
		}
	}
}
