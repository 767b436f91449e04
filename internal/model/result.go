package model

import "time"

// SeasonFilter records the window the matches were drawn from.
type SeasonFilter struct {
	Year      int    `json:"year"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// RewindResult is the final payload of a rewind job.
type RewindResult struct {
	JobID        string         `json:"jobId"`
	Player       PlayerInfo     `json:"player"`
	SeasonFilter SeasonFilter   `json:"seasonFilter"`
	Insights     RewindInsights `json:"insights"`
	AICoach      *CoachContent  `json:"aiCoach,omitempty"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// ComparePlayer bundles one side of a comparison.
type ComparePlayer struct {
	Info     PlayerInfo     `json:"info"`
	Insights RewindInsights `json:"insights"`
}

// HeadToHead summarizes matches both players appeared in, when any exist.
type HeadToHead struct {
	Games  int `json:"games"`
	P1Wins int `json:"p1Wins"`
	P2Wins int `json:"p2Wins"`
}

// Comparison holds the verdicts. Advantage values are "player1", "player2"
// or "tie". CommonChampions keeps player2's top-champion order.
type Comparison struct {
	WinrateAdvantage     string      `json:"winrateAdvantage"`
	KDAAdvantage         string      `json:"kdaAdvantage"`
	GamesPlayedAdvantage string      `json:"gamesPlayedAdvantage"`
	CommonChampions      []string    `json:"commonChampions"`
	HeadToHead           *HeadToHead `json:"headToHead,omitempty"`
}

// CompareResult is the final payload of a compare job.
type CompareResult struct {
	JobID       string        `json:"jobId"`
	Player1     ComparePlayer `json:"player1"`
	Player2     ComparePlayer `json:"player2"`
	Comparison  Comparison    `json:"comparison"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ResultRecord stores a finished job's payload as serialized JSON. One row
// per job, written exactly once before the job flips to DONE.
type ResultRecord struct {
	JobID     string    `gorm:"primaryKey;size:64" json:"job_id"`
	Kind      JobKind   `gorm:"size:16;not null" json:"kind"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ResultRecord) TableName() string {
	return "rewind_results"
}
