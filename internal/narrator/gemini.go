package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/internal/model"
)

const geminiDefaultTimeout = 15 * time.Second

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Narrator
}

// Gemini generates coaching content through the generativelanguage API. Any
// failure degrades to the fallback narrator rather than failing the job.
type Gemini struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback Narrator
}

func NewGemini(opts GeminiOptions) *Gemini {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStatic()
	}
	return &Gemini{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: fallback,
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) GenerateCoach(ctx context.Context, player *model.PlayerInfo, insights *model.RewindInsights) (*model.CoachContent, error) {
	if g.apiKey == "" {
		return g.useFallback(ctx, player, insights)
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: g.buildPrompt(player, insights)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.6,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, player, insights)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.useFallback(ctx, player, insights)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Msg("gemini request failed, using static narrator")
		return g.useFallback(ctx, player, insights)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("gemini returned error status, using static narrator")
		return g.useFallback(ctx, player, insights)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.useFallback(ctx, player, insights)
	}

	text := extractText(out)
	if text == "" {
		return g.useFallback(ctx, player, insights)
	}

	var content model.CoachContent
	if err := json.Unmarshal([]byte(extractJSONFragment(text)), &content); err != nil {
		return g.useFallback(ctx, player, insights)
	}
	if content.Narrative == "" {
		return g.useFallback(ctx, player, insights)
	}

	content.Provider = geminiProviderName
	return &content, nil
}

func (g *Gemini) useFallback(ctx context.Context, player *model.PlayerInfo, insights *model.RewindInsights) (*model.CoachContent, error) {
	content, err := g.fallback.GenerateCoach(ctx, player, insights)
	if content != nil {
		content.Provider = staticProviderName
	}
	return content, err
}

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func (g *Gemini) buildPrompt(player *model.PlayerInfo, insights *model.RewindInsights) string {
	summary, _ := json.Marshal(insights)
	var sb strings.Builder
	sb.WriteString("You are a League of Legends coach writing a season recap. ")
	sb.WriteString("Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"narrative":string,"strengths":[{"title":string,"description":string}],` +
		`"weaknesses":[{"title":string,"description":string}],` +
		`"drills":[{"title":string,"description":string,"difficulty":"Easy"|"Medium"|"Hard"}],` +
		`"championRecommendations":[{"championId":number,"championName":string,"reason":string}]}`)
	fmt.Fprintf(&sb, ". Limit to 3 strengths, 2 weaknesses, 3 drills, 2 recommendations. "+
		"The player is %s#%s. Season insights: %s", player.GameName, player.TagLine, summary)
	return sb.String()
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var _ Narrator = (*Gemini)(nil)
var _ Narrator = (*Static)(nil)
