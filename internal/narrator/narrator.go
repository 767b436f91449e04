// Package narrator produces the coaching narrative attached to a finished
// rewind. The static narrator is deterministic; the gemini narrator calls an
// LLM and falls back to static output when anything goes wrong.
package narrator

import (
	"context"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/model"
)

const (
	geminiProviderName = "gemini"
	staticProviderName = "static"
)

type Narrator interface {
	GenerateCoach(ctx context.Context, player *model.PlayerInfo, insights *model.RewindInsights) (*model.CoachContent, error)
}

// NewFromConfig picks the provider. Anything other than a configured gemini
// gets the static narrator.
func NewFromConfig(cfg *config.NarratorConfig) Narrator {
	if cfg.Provider == geminiProviderName && cfg.APIKey != "" {
		return NewGemini(GeminiOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	}
	return NewStatic()
}
