package model

// RewindStats aggregates a season of matches.
type RewindStats struct {
	GamesPlayed       int     `json:"gamesPlayed"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Winrate           float64 `json:"winrate"`
	TotalKills        int     `json:"totalKills"`
	TotalDeaths       int     `json:"totalDeaths"`
	TotalAssists      int     `json:"totalAssists"`
	AvgKDA            float64 `json:"avgKda"`
	AvgGameDuration   float64 `json:"avgGameDuration"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLossStreak int     `json:"longestLossStreak"`
	MostPlayedRole    string  `json:"mostPlayedRole"`
}

// ChampionStats is a per-champion aggregate, ranked by games played.
type ChampionStats struct {
	ChampionID   int     `json:"championId"`
	ChampionName string  `json:"championName"`
	GamesPlayed  int     `json:"gamesPlayed"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Winrate      float64 `json:"winrate"`
	AvgKDA       float64 `json:"avgKda"`
	AvgCS        float64 `json:"avgCs"`
	AvgDamage    float64 `json:"avgDamage"`
}

type RoleDistribution struct {
	Role       string  `json:"role"`
	Games      int     `json:"games"`
	Percentage float64 `json:"percentage"`
}

type WinrateDataPoint struct {
	Period  string  `json:"period"`
	Winrate float64 `json:"winrate"`
	Games   int     `json:"games"`
}

type HighlightType string

const (
	HighlightBestMatch       HighlightType = "best_match"
	HighlightWorstMatch      HighlightType = "worst_match"
	HighlightBiggestComeback HighlightType = "biggest_comeback"
	HighlightLongestGame     HighlightType = "longest_game"
)

type HighlightStats struct {
	KDA      string `json:"kda"`
	Duration string `json:"duration"`
	Result   string `json:"result"` // Victory or Defeat
}

type MatchHighlight struct {
	MatchID      string         `json:"matchId"`
	Type         HighlightType  `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ChampionName string         `json:"championName"`
	ChampionID   int            `json:"championId"`
	Stats        HighlightStats `json:"stats"`
}

// RewindInsights is the full aggregate computed from one player's season.
type RewindInsights struct {
	Stats            RewindStats        `json:"stats"`
	TopChampions     []ChampionStats    `json:"topChampions"`
	RoleDistribution []RoleDistribution `json:"roleDistribution"`
	WinrateOverTime  []WinrateDataPoint `json:"winrateOverTime"`
	Highlights       []MatchHighlight   `json:"highlights"`
	VisionScore      int                `json:"visionScore"`
	ObjectiveScore   int                `json:"objectiveScore"`
}

// Coaching content generated from insights.

type CoachStrength struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CoachWeakness struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CoachDrill struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"` // Easy, Medium, Hard
}

type ChampionRecommendation struct {
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
	Reason       string `json:"reason"`
}

// CoachContent carries the narrative plus coaching tips. Provider records
// which backend produced it ("gemini", or "static" for the fallback).
type CoachContent struct {
	Narrative               string                   `json:"narrative"`
	Strengths               []CoachStrength          `json:"strengths"`
	Weaknesses              []CoachWeakness          `json:"weaknesses"`
	Drills                  []CoachDrill             `json:"drills"`
	ChampionRecommendations []ChampionRecommendation `json:"championRecommendations"`
	Provider                string                   `json:"provider,omitempty"`
}
