package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientMissingKey(t *testing.T) {
	t.Setenv("LUCERNA_TEST_EMPTY_KEY", "")

	_, err := NewOpenAIClient(OpenAIConfig{APIKeyEnv: "LUCERNA_TEST_EMPTY_KEY"})
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTruncate(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hola", Truncate("hola"))
	})

	t.Run("long text capped at character boundary", func(t *testing.T) {
		// Multibyte runes so a byte-level cut would split a character.
		long := strings.Repeat("á", MaxInputChars+100)
		got := Truncate(long)
		runes := []rune(got)
		assert.Len(t, runes, MaxInputChars)
		for _, r := range runes {
			assert.Equal(t, 'á', r)
		}
	})
}

func TestOpenAIClientEmbed(t *testing.T) {
	var gotInput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)
		gotInput = req.Input[0]

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("LUCERNA_TEST_KEY", "test-key")
	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL:   srv.URL,
		APIKeyEnv: "LUCERNA_TEST_KEY",
		Model:     "text-embedding-3-small",
	})
	require.NoError(t, err)

	vec, err := client.Embed(context.Background(), strings.Repeat("x", MaxInputChars+500))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Len(t, gotInput, MaxInputChars)
	assert.Equal(t, "text-embedding-3-small", client.ModelVersion())
}

func TestOpenAIClientServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "requests"},
		})
	}))
	defer srv.Close()

	t.Setenv("LUCERNA_TEST_KEY", "test-key")
	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL:   srv.URL,
		APIKeyEnv: "LUCERNA_TEST_KEY",
	})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "query")
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.Status)
}

func TestOpenAIClientEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	t.Setenv("LUCERNA_TEST_KEY", "test-key")
	client, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL, APIKeyEnv: "LUCERNA_TEST_KEY"})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "query")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
}
