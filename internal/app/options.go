package service

import (
	"time"

	"github.com/okian/formline/internal/adapters/repository"
	"github.com/okian/formline/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistoryStore sets the history store. Absent one, the service falls
// back to an in-memory store on Start.
func WithHistoryStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.history = store
		}
	}
}

// WithPriceTolerance bounds the nearest-time price match window.
func WithPriceTolerance(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tolerance = d
		}
	}
}

// WithMaxUploadBytes caps the combined size of one upload batch.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithMaxHistoryLimit caps the limit accepted by History queries.
func WithMaxHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistoryLimit = n
		}
	}
}
