package suggest

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrNoAPIKey = errors.New("gemini api key is not set")

// suggestionSchema constrains the model to an array of {text, style}.
var suggestionSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text":  {Type: genai.TypeString},
			"style": {Type: genai.TypeString},
		},
		Required: []string{"text", "style"},
	},
}

// GeminiGenerator is a Generator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    suggestionSchema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
