// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/formline/internal/adapters/ingest"
	"github.com/okian/formline/internal/adapters/repository"
	"github.com/okian/formline/internal/domain/adapt"
	"github.com/okian/formline/internal/domain/analytics"
	"github.com/okian/formline/internal/domain/classify"
	"github.com/okian/formline/internal/domain/linkage"
	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/internal/domain/reconcile"
	"github.com/okian/formline/pkg/logger"
	"github.com/okian/formline/pkg/metrics"
)

// Service implements the API dependencies for the betting analyzer.
type Service struct {
	mu sync.RWMutex

	// historyMu serializes read-merge-rewrite cycles against the store so
	// concurrent persisted uploads never interleave partial histories.
	historyMu sync.Mutex

	// Core components
	history repository.Store
	linker  *linkage.Linker

	// Configuration
	tolerance       time.Duration
	maxUploadBytes  int64
	maxHistoryLimit int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		tolerance:       24 * time.Hour,
		maxUploadBytes:  64 << 20,
		maxHistoryLimit: 10_000,
		logger:          nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analyzer service...")

	if s.history == nil {
		s.history = repository.NewMemory()
		s.logger.Info(ctx, "using in-memory history store")
	}
	s.linker = linkage.New(linkage.WithTolerance(s.tolerance))

	s.started = true
	s.logger.Info(ctx, "analyzer service started",
		logger.String("priceTolerance", s.tolerance.String()),
		logger.Int("maxUploadBytes", int(s.maxUploadBytes)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analyzer service...")

	if s.history != nil {
		_ = s.history.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "analyzer service stopped")
}

// Analyze runs the full pipeline over one upload batch: decode, classify,
// adapt, link, optionally reconcile into the durable history, and aggregate
// the analytics payload. With persist set, the analytics cover the whole
// reconciled history; without it, only the uploaded batch.
func (s *Service) Analyze(ctx context.Context, files []ingest.File, persist bool) (analytics.Response, error) {
	start := time.Now()
	metrics.RecordAnalyzeRequest()
	defer func() {
		metrics.RecordAnalyzeDuration(float64(time.Since(start).Milliseconds()))
	}()

	if err := s.checkUploadSize(files); err != nil {
		return analytics.Response{}, err
	}

	batchID := uuid.New().String()
	s.logger.Info(ctx, "analyzing upload batch",
		logger.String("batchID", batchID),
		logger.Int("files", len(files)),
		logger.Any("persist", persist),
	)

	tables, err := ingest.DecodeAll(files)
	if err != nil {
		return analytics.Response{}, fmt.Errorf("decode upload: %w", err)
	}

	batch, err := classify.Partition(tables)
	if err != nil {
		return analytics.Response{}, err
	}

	tips := adapt.Tips(batch.Tips)
	facts := adapt.RaceFacts(batch.RaceMetadata)
	ticks := adapt.PriceTicks(batch.Prices)
	metrics.RecordTipsReshaped(len(tips))

	bets := s.linker.Link(tips, facts, ticks)
	metrics.RecordBetsLinked(len(bets))

	uploadedAt := time.Now().UTC()
	for i := range bets {
		bets[i].UploadedAt = uploadedAt
	}

	s.logger.Info(ctx, "batch linked",
		logger.String("batchID", batchID),
		logger.Int("tips", len(tips)),
		logger.Int("raceFacts", len(facts)),
		logger.Int("priceTicks", len(ticks)),
		logger.Int("bets", len(bets)),
	)

	if !persist {
		return analytics.Aggregate(bets), nil
	}

	merged, err := s.mergeIntoHistory(ctx, bets)
	if err != nil {
		return analytics.Response{}, err
	}
	return analytics.Aggregate(merged), nil
}

// mergeIntoHistory runs the read-merge-rewrite cycle under the single-writer
// lock. A failed history read degrades to an empty history rather than
// rejecting the upload; a failed rewrite rejects it, leaving the stored
// history untouched.
func (s *Service) mergeIntoHistory(ctx context.Context, bets []model.LinkedBet) ([]model.LinkedBet, error) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	history, err := s.history.Load(ctx)
	if err != nil {
		metrics.RecordHistoryLoadFailure()
		s.logger.Warn(ctx, "history unreadable, analyzing against empty history",
			logger.Error(err),
		)
		history = nil
	}

	merged := reconcile.Merge(history, bets)

	rewriteStart := time.Now()
	if err := s.history.Replace(ctx, merged); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}
	metrics.RecordHistoryRewrite()
	metrics.RecordHistoryRewriteLatency(float64(time.Since(rewriteStart).Milliseconds()))
	metrics.UpdateHistoryRows(len(merged))

	return merged, nil
}

// History returns the reconciled history, newest rows last. A positive limit
// keeps only the most recent rows; zero returns everything.
func (s *Service) History(ctx context.Context, limit int) ([]model.LinkedBet, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	if s.maxHistoryLimit > 0 && limit > s.maxHistoryLimit {
		return nil, fmt.Errorf("limit %d exceeds maximum %d: %w", limit, s.maxHistoryLimit, ErrInvalidLimit)
	}

	bets, err := s.history.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if limit > 0 && len(bets) > limit {
		bets = bets[len(bets)-limit:]
	}
	return bets, nil
}

// ClearHistory deletes every stored bet.
func (s *Service) ClearHistory(ctx context.Context) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	if err := s.history.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	metrics.UpdateHistoryRows(0)
	s.logger.Info(ctx, "history cleared")
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"priceTolerance": s.tolerance.String(),
		"maxUploadBytes": s.maxUploadBytes,
	}

	if s.started {
		if n, err := s.history.Count(context.Background()); err == nil {
			stats["historyRows"] = n
			metrics.UpdateHistoryRows(n)
		}
	}

	return stats
}

func (s *Service) checkUploadSize(files []ingest.File) error {
	var total int64
	for _, f := range files {
		total += int64(len(f.Content))
	}
	if total > s.maxUploadBytes {
		return fmt.Errorf("upload of %d bytes: %w", total, ErrUploadTooLarge)
	}
	return nil
}
