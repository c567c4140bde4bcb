package generator

import "context"

// Request is one prompt/response exchange
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSONMode asks the backend to constrain the reply to a JSON object when it supports it.
	JSONMode bool
}

// TextGenerator turns a prompt into free-form text. Replies are untrusted and may be
// truncated or malformed; callers run them through the recovery layer.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// HealthChecker is implemented by generators that can be checked for reachability
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
