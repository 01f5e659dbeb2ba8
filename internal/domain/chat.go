package domain

// ============================================================
// Chat API: request/response (widget contract)
// ============================================================

// ChatRequest is the body of POST /chat.
// Business is optional; when absent the profile is resolved from configuration.
type ChatRequest struct {
	Message  string           `json:"message"`
	Locale   string           `json:"locale,omitempty"`
	Business *BusinessProfile `json:"business,omitempty"`
}

// ChatResponse is returned by POST /chat on success.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Locale   string `json:"locale"`
	Business string `json:"business"`
}

// ============================================================
// Completion provider
// ============================================================

// Completion is the provider's answer for one grounding prompt + user message.
type Completion struct {
	Reply string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks LLM token consumption for cost monitoring.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
