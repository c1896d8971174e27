package constraint

import "log/slog"

// Defaults of the output format.
const (
	DefaultNameWidth         = 20
	DefaultPullThresholdOhms = 10000.0
)

// Option configures an Emitter.
type Option func(*Emitter)

// WithNameWidth sets the column the quoted net name is padded to.
func WithNameWidth(n int) Option {
	return func(e *Emitter) {
		if n >= 0 {
			e.nameWidth = n
		}
	}
}

// WithPullThreshold sets the resistance above which a pull is weak.
func WithPullThreshold(ohms float64) Option {
	return func(e *Emitter) {
		if ohms > 0 {
			e.threshold = ohms
		}
	}
}

// WithLogger logs skipped pins at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}
