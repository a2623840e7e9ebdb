package llm

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type Message struct {
	Role    string
	Content string
}

// Params holds per-call decoding parameters. The two agent roles use
// different settings (low temperature for the researcher, higher for the
// simulated respondent), so they travel with every call instead of living
// on the client.
type Params struct {
	Temperature float32
	MaxTokens   int
}

// Schema constrains a response to a JSON shape. Providers with native
// structured output use it directly; others ask for JSON in the prompt and
// return the raw content for the caller to parse.
type Schema struct {
	Name       string
	Definition *jsonschema.Definition
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message, params Params) (Response, error)
	// GenerateStructured behaves like Generate but constrains the response
	// to the given schema; Response.Content is the JSON document.
	GenerateStructured(ctx context.Context, messages []Message, params Params, schema Schema) (Response, error)
}
