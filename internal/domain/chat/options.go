package chat

import (
	"time"

	"github.com/okian/lumen/internal/domain/speech"
	"github.com/okian/lumen/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithDefaultLanguage sets the language the generator answers in.
// Other target languages trigger a translation step.
func WithDefaultLanguage(code string) Option {
	return func(o *Orchestrator) {
		if code != "" {
			o.defaultLanguage = code
		}
	}
}

// WithStepTimeout bounds each outbound call separately.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.stepTimeout = d
		}
	}
}

// WithNormalizer replaces the speech response normalizer.
func WithNormalizer(n *speech.Normalizer) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithRequestIDs sets the generator for request ids the speech vendor did
// not supply.
func WithRequestIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newID = next
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
