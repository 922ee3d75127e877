package predict

import (
	"context"
	"fmt"
	"sync"

	"github.com/dryerd/dryerd/internal/features"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/pkg/types"
)

// Service owns the prediction models. Models resolve lazily on first
// use and stay loaded for the lifetime of the process; Reset drops
// them so tests get a clean lifecycle instead of ambient state.
type Service struct {
	mu       sync.Mutex
	resolver *models.Resolver

	timeModelID string
	distModelID string

	pipeline *Pipeline
}

// NewService creates a prediction service over a resolver and the two
// model identifiers it serves.
func NewService(resolver *models.Resolver, timeModelID, distModelID string) *Service {
	return &Service{
		resolver:    resolver,
		timeModelID: timeModelID,
		distModelID: distModelID,
	}
}

// Predict parses a raw query payload and runs the two-stage pipeline.
func (s *Service) Predict(ctx context.Context, raw string) (*types.PredictionResult, error) {
	vec, err := features.ParseInput(raw)
	if err != nil {
		return nil, err
	}

	p, err := s.loadPipeline(ctx, false)
	if err != nil {
		return nil, err
	}

	return p.Run(vec)
}

// WarmUp resolves both models up front. The two resolves are
// independent: a partial failure leaves the other model cached.
func (s *Service) WarmUp(ctx context.Context, force bool) error {
	_, err := s.loadPipeline(ctx, force)
	return err
}

// Loaded reports whether the models are resident in memory.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline != nil
}

// Reset drops the in-memory models. The next call resolves them again.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = nil
}

// Evict removes a cached artifact from the mount and drops the
// in-memory models so the next call re-resolves.
func (s *Service) Evict(identifier string) error {
	if err := s.resolver.Evict(identifier); err != nil {
		return err
	}
	s.Reset()
	return nil
}

// ModelIdentifiers returns the identifiers this service resolves.
func (s *Service) ModelIdentifiers() []string {
	return []string{s.timeModelID, s.distModelID}
}

func (s *Service) loadPipeline(ctx context.Context, force bool) (*Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline != nil && !force {
		return s.pipeline, nil
	}

	timeModel, err := s.resolver.Resolve(ctx, s.timeModelID, force)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", s.timeModelID, err)
	}
	distModel, err := s.resolver.Resolve(ctx, s.distModelID, force)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", s.distModelID, err)
	}

	s.pipeline = &Pipeline{Time: timeModel, Distribution: distModel}
	return s.pipeline, nil
}
