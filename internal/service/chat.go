package service

import (
	"context"
	"strings"
	"time"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/fallback"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/locale"
	"github.com/kvothesson/chat-saas-gateway/internal/offer"
	"github.com/kvothesson/chat-saas-gateway/internal/port"
	"github.com/kvothesson/chat-saas-gateway/internal/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/chat")

// ChatService runs the chat pipeline: profile → locale → offers → prompt → completion.
// It holds no per-request state.
type ChatService struct {
	profiles   port.ProfileResolver
	completion port.CompletionCaller
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewChatService creates the chat service with all dependencies injected.
func NewChatService(
	profiles port.ProfileResolver,
	completion port.CompletionCaller,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		profiles:   profiles,
		completion: completion,
		metrics:    metrics,
		logger:     logger,
	}
}

// Profile returns the profile a request without an embedded business would use.
func (s *ChatService) Profile(ctx context.Context) (*domain.BusinessProfile, error) {
	return s.profiles.Resolve(ctx, nil)
}

// Reply answers one chat request. chatID only labels logs and spans.
func (s *ChatService) Reply(ctx context.Context, chatID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ChatService.Reply")
	defer span.End()
	span.SetAttributes(attribute.String("chat.id", chatID))

	resp, err := s.reply(ctx, chatID, req)
	if err != nil {
		s.metrics.IncrChatRequest("error")
		span.RecordError(err)
		return nil, err
	}
	s.metrics.IncrChatRequest("success")
	return resp, nil
}

func (s *ChatService) reply(ctx context.Context, chatID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &domain.ErrMalformedRequest{Field: "message", Message: "is required"}
	}
	log := s.logger.With(zap.String("chat_id", chatID))
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		log = log.With(zap.String("trace_id", sc.TraceID().String()))
	}

	// --- Step 1: Business profile ---
	start := time.Now()
	profile, err := s.profiles.Resolve(ctx, req.Business)
	s.metrics.RecordStageDuration("profile", time.Since(start))
	if err != nil {
		return nil, err
	}

	// --- Step 2: Locale ---
	loc := Locale(req, profile)

	// --- Step 3: Offers + grounding prompt ---
	start = time.Now()
	offers := offer.Compute(profile, loc)
	s.metrics.RecordStageDuration("offers", time.Since(start))

	start = time.Now()
	instruction := prompt.Build(profile, loc, offers)
	s.metrics.RecordStageDuration("prompt", time.Since(start))

	log.Info("chat pipeline prepared",
		zap.String("business_id", profile.ID),
		zap.String("locale", loc),
		zap.Int("offers", offers.Len()),
	)

	// --- Step 4: Completion ---
	start = time.Now()
	completion, err := s.completion.Complete(ctx, instruction, req.Message)
	elapsed := time.Since(start)
	s.metrics.RecordStageDuration("completion", elapsed)
	if err != nil {
		s.metrics.IncrExternalError("completion")
		log.Error("completion call failed", zap.Error(err))
		return nil, err
	}
	s.metrics.RecordCompletion(completion.Model, completion.Usage)

	log.Info("completion received",
		zap.String("model", completion.Model),
		zap.Duration("latency", elapsed),
		zap.Int("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int("completion_tokens", completion.Usage.CompletionTokens),
	)

	return &domain.ChatResponse{
		Reply:    completion.Reply,
		Locale:   loc,
		Business: profile.ID,
	}, nil
}

// Locale returns the request locale when supplied, else the one detected
// from the message with the profile's default locale as fallback.
func Locale(req *domain.ChatRequest, profile *domain.BusinessProfile) string {
	loc, _, _ := fallback.First(
		fallback.Value("request", req.Locale),
		fallback.Step[string]{Name: "detected", Run: func() (string, error) {
			return locale.Detect(req.Message, profile.DefaultLocale), nil
		}},
	)
	return loc
}
