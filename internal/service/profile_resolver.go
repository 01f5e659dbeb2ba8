package service

import (
	"context"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/fallback"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/port"

	"go.uber.org/zap"
)

// SourceRequest names the profile embedded in the chat request body.
const SourceRequest = "request"

// ProfileResolver picks the business profile for a request: the embedded one
// first, then each configured source in order. The first success wins and
// profiles are never merged.
type ProfileResolver struct {
	sources []port.ProfileSource
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewProfileResolver creates a resolver over the given ordered sources.
func NewProfileResolver(sources []port.ProfileSource, metrics *observability.Metrics, logger *zap.Logger) *ProfileResolver {
	return &ProfileResolver{
		sources: sources,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the profile with defaults applied, or *domain.ErrProfileResolution
// when every source failed. Each source is tried at most once.
func (r *ProfileResolver) Resolve(ctx context.Context, embedded *domain.BusinessProfile) (*domain.BusinessProfile, error) {
	ctx, span := tracer.Start(ctx, "ProfileResolver.Resolve")
	defer span.End()

	steps := make([]fallback.Step[*domain.BusinessProfile], 0, len(r.sources)+1)
	steps = append(steps, fallback.Step[*domain.BusinessProfile]{
		Name: SourceRequest,
		Run: func() (*domain.BusinessProfile, error) {
			if embedded == nil {
				return nil, fallback.ErrSkip
			}
			return embedded, nil
		},
	})
	for _, src := range r.sources {
		src := src
		steps = append(steps, fallback.Step[*domain.BusinessProfile]{
			Name: src.Name(),
			Run:  func() (*domain.BusinessProfile, error) { return src.Fetch(ctx) },
		})
	}

	profile, source, err := fallback.First(steps...)
	if err != nil {
		r.metrics.IncrExternalError("profile")
		r.logger.Error("business profile resolution failed", zap.Error(err))
		span.RecordError(err)
		return nil, &domain.ErrProfileResolution{Attempts: err}
	}

	r.metrics.IncrProfileSource(source)
	r.logger.Debug("business profile resolved",
		zap.String("source", source),
		zap.String("business_id", profile.ID),
	)
	return profile.WithDefaults(), nil
}
