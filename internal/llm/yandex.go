package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Morwran/yagpt"
)

type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	// Create IAM token from OAuth token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create iam token: %w", err)
	}

	// Create YaGPT client for a folder
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}

	return &YandexClient{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message, params Params) (Response, error) {
	var yaMsgs []yagpt.Message
	for _, m := range messages {
		yaMsgs = append(yaMsgs, yagpt.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, yaMsgs)
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, fmt.Errorf("yagpt returned empty response")
	}
	out := Response{Content: resp.Alternatives[0].Message.Content, Model: yagpt.YaModelLite}
	out.PromptTokens = int(resp.Usage.InputTextTokens)
	out.CompletionTokens = int(resp.Usage.CompletionTokens)
	out.TotalTokens = int(resp.Usage.TotalTokens)
	return out, nil
}

// GenerateStructured has no native schema support in YaGPT, so the schema is
// turned into an explicit JSON instruction prepended to the request. The
// caller parses Content the same way as for providers with native support.
func (c *YandexClient) GenerateStructured(ctx context.Context, messages []Message, params Params, schema Schema) (Response, error) {
	if schema.Definition == nil {
		return Response{}, fmt.Errorf("structured generation requires a schema definition")
	}
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal schema: %w", err)
	}
	instruction := Message{
		Role:    "system",
		Content: fmt.Sprintf("Respond with a single JSON object matching this JSON schema, with no surrounding text:\n%s", raw),
	}
	augmented := make([]Message, 0, len(messages)+1)
	augmented = append(augmented, instruction)
	augmented = append(augmented, messages...)
	return c.Generate(ctx, augmented, params)
}
