package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kvothesson/chat-saas-gateway/internal/handler"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/client"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/resilience"
	"github.com/kvothesson/chat-saas-gateway/internal/port"
	"github.com/kvothesson/chat-saas-gateway/internal/service"

	"go.uber.org/zap"
)

const providerReply = `{
	"id": "chatcmpl-1",
	"model": "llama3-70b-8192",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "¡Hola! 💍"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 300, "completion_tokens": 60, "total_tokens": 360}
}`

type gateway struct {
	router   http.Handler
	provider *httptest.Server
	profiles *httptest.Server
	calls    *int
}

// newGateway wires the real pipeline against fake provider and profile hosts.
func newGateway(t *testing.T, providerStatus int, opts handler.Options) *gateway {
	t.Helper()

	raw, err := os.ReadFile("../../data/business.json")
	if err != nil {
		t.Fatalf("failed to read sample profile: %v", err)
	}
	profiles := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}))
	t.Cleanup(profiles.Close)

	calls := 0
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if providerStatus != http.StatusOK {
			w.WriteHeader(providerStatus)
			w.Write([]byte(`{"error":{"message":"service unavailable","type":"server_error"}}`))
			return
		}
		w.Write([]byte(providerReply))
	}))
	t.Cleanup(provider.Close)

	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	completion := client.NewCompletionClient(
		provider.Client(),
		client.CompletionOptions{APIKey: "k", BaseURL: provider.URL, DefaultModel: "llama3-70b-8192"},
		resilience.NewCircuitBreaker("completion", client.IsClientFault),
		resilience.Config{MaxConcurrency: 4},
	)
	resolver := service.NewProfileResolver([]port.ProfileSource{
		client.NewHTTPProfileSource("configured", profiles.Client(), profiles.URL, resilience.NewCircuitBreaker("profile")),
	}, metrics, logger)
	svc := service.NewChatService(resolver, completion, metrics, logger)

	return &gateway{
		router:   handler.NewRouter(svc, metrics, logger, opts),
		provider: provider,
		profiles: profiles,
		calls:    &calls,
	}
}

func (g *gateway) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected CORS allow-origin *, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,OPTIONS" {
		t.Errorf("expected CORS methods, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("expected CORS headers, got %q", got)
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestChat_RingJewelers(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	rec := g.do(http.MethodPost, "/chat", `{"message":"Hola, cuánto sale el cintillo A?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if rec.Header().Get(observability.ChatIDHeader) == "" {
		t.Error("expected chat id header")
	}

	body := decodeBody(t, rec)
	if body["business"] != "ring-jewelers" {
		t.Errorf("expected business ring-jewelers, got %v", body["business"])
	}
	if body["locale"] != "es-AR" {
		t.Errorf("expected locale es-AR, got %v", body["locale"])
	}
	if body["reply"] != "¡Hola! 💍" {
		t.Errorf("unexpected reply %v", body["reply"])
	}
}

func TestChat_EmbeddedEmptyCatalog(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	rec := g.do(http.MethodPost, "/chat", `{"message":"hello","business":{"id":"empty-shop","name":"Empty","catalog":[]}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["business"] != "empty-shop" {
		t.Errorf("expected embedded business, got %v", body["business"])
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	g := newGateway(t, http.StatusServiceUnavailable, handler.Options{})

	rec := g.do(http.MethodPost, "/chat", `{"message":"Hola"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	assertCORS(t, rec)
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("expected non-empty error")
	} else if !strings.Contains(msg, "503") {
		t.Errorf("expected upstream status in error, got %q", msg)
	}
	if _, ok := body["reply"]; ok {
		t.Error("expected no reply field on failure")
	}
	if *g.calls != 1 {
		t.Errorf("expected exactly one provider call, got %d", *g.calls)
	}
}

func TestChat_MalformedRequests(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	for _, body := range []string{`{not json`, `{"locale":"es-AR"}`, `{"message":"  "}`} {
		rec := g.do(http.MethodPost, "/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
		assertCORS(t, rec)
		if msg, _ := decodeBody(t, rec)["error"].(string); msg == "" {
			t.Errorf("body %s: expected error message", body)
		}
	}
	if *g.calls != 0 {
		t.Errorf("expected no provider call, got %d", *g.calls)
	}
}

func TestPreflight(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	for _, path := range []string{"/chat", "/anything/else"} {
		rec := g.do(http.MethodOptions, path, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: expected 204, got %d", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("%s: expected empty body", path)
		}
		assertCORS(t, rec)
	}
}

func TestRootAndNotFound(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	rec := g.do(http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Agent Worker OK" {
		t.Errorf("expected liveness body, got %d %q", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/chat"},
		{http.MethodDelete, "/"},
		{http.MethodGet, "/debug/stats"},
	} {
		rec := g.do(tc.method, tc.path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
		if rec.Body.String() != "Not found" {
			t.Errorf("%s %s: expected fixed body, got %q", tc.method, tc.path, rec.Body.String())
		}
		assertCORS(t, rec)
	}
}

func TestBusiness(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	rec := g.do(http.MethodGet, "/business", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["id"] != "ring-jewelers" {
		t.Error("expected ring-jewelers profile")
	}
}

func TestOperationalEndpoints(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{})

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/ping"} {
		rec := g.do(http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		assertCORS(t, rec)
	}
}

func TestDebugStats(t *testing.T) {
	g := newGateway(t, http.StatusOK, handler.Options{DebugStats: true})

	if rec := g.do(http.MethodPost, "/chat", `{"message":"hello"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := g.do(http.MethodGet, "/debug/stats?type=today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_requests"] != float64(1) {
		t.Errorf("expected 1 request, got %v", body["total_requests"])
	}
	if body["total_input_tokens"] != float64(300) || body["total_output_tokens"] != float64(60) {
		t.Errorf("unexpected token totals: %v", body)
	}
	if cost, _ := body["total_cost_usd"].(float64); cost <= 0 {
		t.Errorf("expected positive cost, got %v", body["total_cost_usd"])
	}

	if rec := g.do(http.MethodGet, "/debug/stats?type=week", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", rec.Code)
	}
}
