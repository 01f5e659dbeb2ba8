// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete HTTP, file and completion adapters.
package port

import (
	"context"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
)

// ProfileSource loads a business profile from one location.
// Implementations return fallback.ErrSkip when they are not configured.
type ProfileSource interface {
	Name() string
	Fetch(ctx context.Context) (*domain.BusinessProfile, error)
}

// ProfileResolver yields the business profile for a chat request.
type ProfileResolver interface {
	Resolve(ctx context.Context, embedded *domain.BusinessProfile) (*domain.BusinessProfile, error)
}

// CompletionCaller sends the grounding prompt and the customer message to
// the completion provider.
type CompletionCaller interface {
	Complete(ctx context.Context, instruction, userMessage string) (*domain.Completion, error)
}
