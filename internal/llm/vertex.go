// internal/llm/vertex.go
package llm

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// VertexConfig configures the Vertex AI Gemini backend.
type VertexConfig struct {
	ProjectID   string
	Location    string
	Model       string
	Temperature float32
	MaxTokens   int32
}

// VertexClient implements CompletionClient against Vertex AI Gemini.
type VertexClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewVertexClient creates the Vertex AI client. A missing project ID is the
// MissingCredential precondition: it fails here, before any analysis call.
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: vertex project id not configured", ErrMissingCredential)
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	// Low temperature keeps scoring consistent across runs.
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	} else {
		model.SetTemperature(0.2)
	}
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxTokens)
	} else {
		model.SetMaxOutputTokens(4096)
	}
	model.ResponseMIMEType = "application/json"

	return &VertexClient{
		client: client,
		model:  model,
		name:   cfg.Model,
	}, nil
}

// Complete sends one request and returns the raw response text. No retries:
// the analysis call is attempted exactly once, and the response may still be
// dirty (code-fenced, out-of-range scores) despite the JSON MIME type.
func (v *VertexClient) Complete(ctx context.Context, instructions, content string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(instructions), genai.Text(content))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	return out, nil
}

// ModelVersion reports the model name stamped onto analysis results.
func (v *VertexClient) ModelVersion() string {
	return v.name
}

func (v *VertexClient) Close() error {
	return v.client.Close()
}
