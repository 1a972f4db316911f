package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	require.NoError(t, err)
	return NewGeminiGenerator(client, "gemini-1.5-flash-latest", 256)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var gotBody string
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash-latest:generateContent")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "Office hours "}, {"text": "are 9-5."}},
				}},
			},
		})
	})

	text, err := gen.Generate(context.Background(), "User: Hours?")
	require.NoError(t, err)

	assert.Equal(t, "Office hours are 9-5.", text)
	assert.Contains(t, gotBody, "User: Hours?")
	assert.Equal(t, "gemini-1.5-flash-latest", gen.Model())
}

func TestGeminiGenerator_NoCandidates(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := gen.Generate(context.Background(), "Hi")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGeminiGenerator_ServerError(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "boom", "status": "INTERNAL"}}`))
	})

	_, err := gen.Generate(context.Background(), "Hi")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to generate content"))
}
