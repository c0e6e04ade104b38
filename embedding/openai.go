package embedding

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI embeddings client. The API key is
// read once from the environment variable named by APIKeyEnv.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// OpenAIClient implements Client against an OpenAI-compatible embeddings
// endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient validates the configuration and builds a client.
// It returns a ConfigError when the key environment variable is unset.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, &ConfigError{Reason: "missing API key in env " + cfg.APIKeyEnv}
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Embed requests one embedding for the given text, truncated to
// MaxInputChars. The first (and only) vector of the response is returned.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{Truncate(text)},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ServiceError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
		}
		return nil, &ServiceError{Message: err.Error(), Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &ServiceError{Message: "no embedding data in response"}
	}
	return resp.Data[0].Embedding, nil
}

// ModelVersion returns the embedding model identifier.
func (c *OpenAIClient) ModelVersion() string {
	return c.model
}
