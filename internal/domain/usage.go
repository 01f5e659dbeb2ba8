package domain

// UsageStats is returned by GET /debug/stats. Values cover the current UTC
// day or the lifetime of the process, depending on Period.
type UsageStats struct {
	Period            string           `json:"period"`
	TotalRequests     int64            `json:"total_requests"`
	TotalInputTokens  int64            `json:"total_input_tokens"`
	TotalOutputTokens int64            `json:"total_output_tokens"`
	TotalCostUSD      float64          `json:"total_cost_usd"`
	ModelsUsed        map[string]int64 `json:"models_used"`
}

// ModelPrice is the provider price in USD per million tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

// DefaultModelPrice applies to models missing from ModelPrices.
var DefaultModelPrice = ModelPrice{Input: 0.50, Output: 0.50}

// ModelPrices lists known completion model prices.
var ModelPrices = map[string]ModelPrice{
	"llama3-70b-8192":               {Input: 0.59, Output: 0.79},
	"llama3-8b-8192":                {Input: 0.05, Output: 0.08},
	"llama-3.1-8b-instant":          {Input: 0.05, Output: 0.08},
	"llama-3.3-70b-versatile":       {Input: 0.59, Output: 0.79},
	"qwen3-32b":                     {Input: 0.29, Output: 0.59},
	"gemma2-9b-it":                  {Input: 0.20, Output: 0.20},
	"openai/gpt-oss-20b":            {Input: 0.10, Output: 0.50},
	"openai/gpt-oss-120b":           {Input: 0.15, Output: 0.75},
	"deepseek-r1-distill-llama-70b": {Input: 0.75, Output: 0.99},
	"mistral-saba-24b":              {Input: 0.79, Output: 0.79},
}

// PriceFor returns the price for a model, falling back to DefaultModelPrice.
func PriceFor(model string) ModelPrice {
	if p, ok := ModelPrices[model]; ok {
		return p
	}
	return DefaultModelPrice
}

// Cost returns the USD cost of the given token counts for a model.
func (p ModelPrice) Cost(inputTokens, outputTokens float64) float64 {
	return inputTokens/1_000_000*p.Input + outputTokens/1_000_000*p.Output
}
