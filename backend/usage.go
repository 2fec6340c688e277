package backend

import "github.com/openai/openai-go"

// Pricing is the price of a model in USD per million tokens.
type Pricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// DefaultPricing lists known model prices. Models missing from the table are
// reported with a cost of zero.
var DefaultPricing = map[string]Pricing{
	openai.ChatModelGPT4_0125Preview: {Input: 10, Output: 30},
	openai.ChatModelGPT4Turbo:        {Input: 10, Output: 30},
	openai.ChatModelGPT4o:            {Input: 2.5, Output: 10},
	openai.ChatModelGPT4oMini:        {Input: 0.15, Output: 0.6},
	openai.ChatModelGPT3_5Turbo:      {Input: 0.5, Output: 1.5},
}

// Usage is the token and cost accounting of a completion.
type Usage struct {
	PromptTokens   int64
	ResponseTokens int64
	TotalTokens    int64
	Cost           float64
}

func (p Pricing) Usage(promptTokens, responseTokens int64) Usage {
	return Usage{
		PromptTokens:   promptTokens,
		ResponseTokens: responseTokens,
		TotalTokens:    promptTokens + responseTokens,
		Cost:           (float64(promptTokens)*p.Input + float64(responseTokens)*p.Output) / 1_000_000,
	}
}
