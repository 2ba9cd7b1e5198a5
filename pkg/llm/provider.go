package llm

import "context"

// LLMProvider is the contract every chat backend satisfies. Providers map
// the generic roles onto their own wire format.
type LLMProvider interface {
	// Chat sends a conversation and returns the model's reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate answers a single prompt with no prior history.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Message is one turn of a conversation. Role is "system", "user" or
// "assistant".
type Message struct {
	Role    string
	Content string
}

// Options collects per-call overrides; providers read what they support.
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}
