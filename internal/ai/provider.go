package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// LLMProvider abstracts the hosted generative model (Gemini today).
type LLMProvider interface {
	// GenerateText returns free-form text for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateStructured requests JSON output and unmarshals it into output.
	GenerateStructured(ctx context.Context, prompt string, output interface{}) error

	// Close releases the underlying client.
	Close()
}

type GeminiProvider struct {
	client *genai.Client
	// model serves free-form calls; jsonModel is preconfigured for JSON
	// output. Separate handles, so concurrent calls share no mutable
	// generation config.
	model     *genai.GenerativeModel
	jsonModel *genai.GenerativeModel
}

// NewGeminiProvider reads GEMINI_API_KEY from the environment.
func NewGeminiProvider(ctx context.Context, modelName string) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.SetTemperature(0.7)
	jsonModel.ResponseMIMEType = "application/json"

	return &GeminiProvider{
		client:    client,
		model:     model,
		jsonModel: jsonModel,
	}, nil
}

func (g *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

func (g *GeminiProvider) GenerateStructured(ctx context.Context, prompt string, output interface{}) error {
	resp, err := g.jsonModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			if err := json.Unmarshal([]byte(txt), output); err != nil {
				return fmt.Errorf("failed to parse JSON: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("no text content in response")
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}
