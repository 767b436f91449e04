package testutil

import (
	"fmt"
	"time"

	"github.com/riftrewind/rewind-server/internal/model"
)

// MatchOption mutates a fixture match before it is returned.
type MatchOption func(*model.MatchSummary)

func WithChampion(id int, name string) MatchOption {
	return func(m *model.MatchSummary) {
		m.ChampionID = id
		m.ChampionName = name
	}
}

func WithWin(win bool) MatchOption {
	return func(m *model.MatchSummary) { m.Win = win }
}

func WithKDA(kills, deaths, assists int) MatchOption {
	return func(m *model.MatchSummary) {
		m.Kills = kills
		m.Deaths = deaths
		m.Assists = assists
		if deaths == 0 {
			m.KDA = float64(kills + assists)
		} else {
			m.KDA = float64(kills+assists) / float64(deaths)
		}
	}
}

func WithCreation(ts time.Time) MatchOption {
	return func(m *model.MatchSummary) { m.GameCreation = ts.UnixMilli() }
}

func WithDuration(seconds int) MatchOption {
	return func(m *model.MatchSummary) {
		m.GameDuration = seconds
		if seconds > 0 {
			m.CSPerMin = float64(m.CS) / (float64(seconds) / 60)
		}
	}
}

func WithPosition(teamPosition string) MatchOption {
	return func(m *model.MatchSummary) { m.TeamPosition = teamPosition }
}

func WithVision(score int) MatchOption {
	return func(m *model.MatchSummary) { m.VisionScore = score }
}

func WithDamage(damage int) MatchOption {
	return func(m *model.MatchSummary) { m.DamageDealt = damage }
}

// NewMatch builds a plausible ranked match, seq keeps ids unique and spreads
// matches a day apart within 2024.
func NewMatch(seq int, opts ...MatchOption) model.MatchSummary {
	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC).Add(time.Duration(seq) * 24 * time.Hour)
	m := model.MatchSummary{
		MatchID:      fmt.Sprintf("NA1_%07d", 1000000+seq),
		GameCreation: created.UnixMilli(),
		GameDuration: 1800,
		GameMode:     "CLASSIC",
		ChampionID:   103,
		ChampionName: "Ahri",
		Win:          true,
		Kills:        8,
		Deaths:       4,
		Assists:      6,
		KDA:          3.5,
		CS:           180,
		CSPerMin:     6.0,
		VisionScore:  24,
		GoldEarned:   12000,
		DamageDealt:  22000,
		Role:         "SOLO",
		Lane:         "MIDDLE",
		TeamPosition: "MIDDLE",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// NewMatches builds n sequential matches sharing the same options.
func NewMatches(n int, opts ...MatchOption) []model.MatchSummary {
	matches := make([]model.MatchSummary, 0, n)
	for i := 0; i < n; i++ {
		matches = append(matches, NewMatch(i, opts...))
	}
	return matches
}

// NewJob builds a pending rewind job record.
func NewJob(id string) *model.RewindJob {
	now := time.Now()
	return &model.RewindJob{
		ID:          id,
		Kind:        model.KindRewind,
		Status:      model.StatusPending,
		CurrentStep: 0,
		TotalSteps:  model.TotalSteps,
		Message:     "Starting rewind generation...",
		StartedAt:   now,
		UpdatedAt:   now,
		GameName:    "Player One",
		TagLine:     "NA1",
		Region:      "na1",
		Year:        2024,
	}
}

// NewCompareJob builds a pending compare job record.
func NewCompareJob(id string) *model.RewindJob {
	job := NewJob(id)
	job.Kind = model.KindCompare
	job.Message = "Starting comparison..."
	job.GameName2 = "Player Two"
	job.TagLine2 = "EUW"
	job.Region2 = "euw1"
	return job
}
