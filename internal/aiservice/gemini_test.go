package aiservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GenerateJSON(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotPath string
		gotKey  string
		gotBody GeminiPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"quote\":\"Go.\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("g-key", srv.URL+"/v1beta", "gemini-test", nil)
	out, err := c.GenerateJSON(context.Background(), TextRequest{
		Task:         TaskMotivation,
		SystemPrompt: MotivationSystemPrompt,
		UserPrompt:   "motivate me",
		Schema:       MotivationSchema,
	})
	require.NoError(t, err)
	require.Equal(t, `{"quote":"Go."}`, out)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)
	require.Equal(t, "g-key", gotKey)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Equal(t, MotivationSystemPrompt, gotBody.SystemInstruction.Parts[0].Text)
	require.Equal(t, "motivate me", gotBody.Contents[0].Parts[0].Text)
	require.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	require.Equal(t, "OBJECT", gotBody.GenerationConfig.ResponseSchema.Type)
	require.Equal(t, []string{"quote"}, gotBody.GenerationConfig.ResponseSchema.Required)
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	out, err := NewGeminiClient("k", srv.URL, "m", nil).GenerateJSON(context.Background(), TextRequest{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGeminiClient_Non200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient("k", srv.URL, "m", nil).GenerateJSON(context.Background(), TextRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiClient_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiClient("", "http://127.0.0.1:1", "m", nil).GenerateJSON(context.Background(), TextRequest{})
	require.EqualError(t, err, "server is not configured for AI generation")
}
