package narrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]string{{"text": text}},
			},
		}},
	})
	require.NoError(t, err)
	return body
}

func TestGeminiParsesModelOutput(t *testing.T) {
	coachJSON := `{"narrative":"A fine season.","strengths":[{"title":"KDA","description":"good"}],` +
		`"weaknesses":[],"drills":[],"championRecommendations":[]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, ":generateContent")
		_, _ = w.Write(geminiBody(t, coachJSON))
	}))
	defer server.Close()

	g := NewGemini(GeminiOptions{APIKey: "key", BaseURL: server.URL})
	content, err := g.GenerateCoach(context.Background(), player(), strongSeason())
	require.NoError(t, err)

	assert.Equal(t, "gemini", content.Provider)
	assert.Equal(t, "A fine season.", content.Narrative)
	require.Len(t, content.Strengths, 1)
}

func TestGeminiStripsCodeFence(t *testing.T) {
	fenced := "```json\n{\"narrative\":\"Fenced but valid.\",\"strengths\":[],\"weaknesses\":[]," +
		"\"drills\":[],\"championRecommendations\":[]}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiBody(t, fenced))
	}))
	defer server.Close()

	g := NewGemini(GeminiOptions{APIKey: "key", BaseURL: server.URL})
	content, err := g.GenerateCoach(context.Background(), player(), strongSeason())
	require.NoError(t, err)
	assert.Equal(t, "Fenced but valid.", content.Narrative)
	assert.Equal(t, "gemini", content.Provider)
}

func TestGeminiFallsBackOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGemini(GeminiOptions{APIKey: "key", BaseURL: server.URL})
	content, err := g.GenerateCoach(context.Background(), player(), strongSeason())
	require.NoError(t, err)
	assert.Equal(t, "static", content.Provider)
	assert.NotEmpty(t, content.Narrative)
}

func TestGeminiFallsBackOnGarbageOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiBody(t, "sorry, I cannot do that"))
	}))
	defer server.Close()

	g := NewGemini(GeminiOptions{APIKey: "key", BaseURL: server.URL})
	content, err := g.GenerateCoach(context.Background(), player(), strongSeason())
	require.NoError(t, err)
	assert.Equal(t, "static", content.Provider)
}

func TestGeminiWithoutKeyUsesFallback(t *testing.T) {
	g := NewGemini(GeminiOptions{})
	content, err := g.GenerateCoach(context.Background(), player(), strongSeason())
	require.NoError(t, err)
	assert.Equal(t, "static", content.Provider)
}
