package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/fallback"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// HTTPProfileSource fetches a business profile JSON document with a single GET.
type HTTPProfileSource struct {
	name       string
	httpClient *http.Client
	url        string
	cb         *gobreaker.CircuitBreaker
}

// NewHTTPProfileSource creates a new HTTPProfileSource. An empty url makes
// the source skip itself.
func NewHTTPProfileSource(name string, httpClient *http.Client, url string, cb *gobreaker.CircuitBreaker) *HTTPProfileSource {
	return &HTTPProfileSource{
		name:       name,
		httpClient: httpClient,
		url:        url,
		cb:         cb,
	}
}

// Name identifies the source in logs and metrics.
func (s *HTTPProfileSource) Name() string {
	return s.name
}

// Fetch downloads and decodes the profile. Any non-2xx status is a failure.
// There is no retry.
func (s *HTTPProfileSource) Fetch(ctx context.Context) (*domain.BusinessProfile, error) {
	if s.url == "" {
		return nil, fallback.ErrSkip
	}

	ctx, span := tracer.Start(ctx, "HTTPProfileSource.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("profile.source", s.name))

	profile, err := resilience.Execute(ctx, s.cb, func() (*domain.BusinessProfile, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("profile host returned status %d", resp.StatusCode)
		}

		var p domain.BusinessProfile
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		return &p, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, &domain.ErrExternalService{Service: s.name, Err: err}
	}

	return profile, nil
}

// FileProfileSource reads a business profile JSON document from disk.
type FileProfileSource struct {
	path string
}

// NewFileProfileSource creates a new FileProfileSource. An empty path makes
// the source skip itself.
func NewFileProfileSource(path string) *FileProfileSource {
	return &FileProfileSource{path: path}
}

// Name identifies the source in logs and metrics.
func (s *FileProfileSource) Name() string {
	return "file"
}

// Fetch reads and decodes the file.
func (s *FileProfileSource) Fetch(ctx context.Context) (*domain.BusinessProfile, error) {
	if s.path == "" {
		return nil, fallback.ErrSkip
	}

	_, span := tracer.Start(ctx, "FileProfileSource.Fetch")
	defer span.End()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var p domain.BusinessProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &p, nil
}
