package service

import (
	"time"

	"github.com/okian/lumen/internal/adapters/repository"
	"github.com/okian/lumen/internal/domain/chat"
	"github.com/okian/lumen/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of archive workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the archive queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxLoanAmount sets the eligible amount at a perfect score.
func WithMaxLoanAmount(amount int) Option {
	return func(s *Service) {
		if amount > 0 {
			s.maxLoanAmount = amount
		}
	}
}

// WithDefaultLanguage sets the language replies are generated in.
func WithDefaultLanguage(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.defaultLanguage = code
		}
	}
}

// WithVendorTimeout bounds each outbound vendor call.
func WithVendorTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.vendorTimeout = d
		}
	}
}

// WithJWTSecret sets the token signing secret. When empty, Start generates
// a random per-process secret.
func WithJWTSecret(secret string) Option {
	return func(s *Service) { s.jwtSecret = secret }
}

// WithTokenTTL sets the login token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithMongo selects the MongoDB store. An empty uri keeps the memory store.
func WithMongo(uri, database string) Option {
	return func(s *Service) {
		s.mongoURI = uri
		s.mongoDatabase = database
	}
}

// WithGemini configures the text generator.
func WithGemini(apiKey, model string) Option {
	return func(s *Service) {
		s.geminiAPIKey = apiKey
		s.geminiModel = model
	}
}

// SarvamSettings groups the speech and translation vendor settings.
type SarvamSettings struct {
	APIKey         string
	BaseURL        string
	Speaker        string
	TTSModel       string
	TranslateModel string
}

// WithSarvam configures the speech and translation vendor.
func WithSarvam(settings SarvamSettings) Option {
	return func(s *Service) { s.sarvam = settings }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithStore injects a ready store instead of building one in Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithGenerator injects the text generator.
func WithGenerator(g chat.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithTranslator injects the translator used by the chat flow.
func WithTranslator(t chat.Translator) Option {
	return func(s *Service) { s.translator = t }
}

// WithSynthesizer injects the speech synthesizer.
func WithSynthesizer(syn chat.Synthesizer) Option {
	return func(s *Service) { s.synthesizer = syn }
}

// WithForwarder injects the translation passthrough.
func WithForwarder(f Forwarder) Option {
	return func(s *Service) { s.forwarder = f }
}
