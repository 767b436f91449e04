package model

import (
	"time"
)

type JobKind string

const (
	KindRewind  JobKind = "rewind"
	KindCompare JobKind = "compare"
)

// JobStatus is the stage enum exposed to clients. The string values are part
// of the API contract; pollers key their stop condition on them.
type JobStatus string

const (
	StatusPending          JobStatus = "PENDING"
	StatusResolvingPlayer  JobStatus = "RESOLVING_PLAYER"
	StatusFetchingMatches  JobStatus = "FETCHING_MATCHES"
	StatusBuildingInsights JobStatus = "BUILDING_INSIGHTS"
	StatusGeneratingStory  JobStatus = "GENERATING_STORY"
	StatusDone             JobStatus = "DONE"
	StatusFailed           JobStatus = "FAILED"
)

// TotalSteps counts the working stages between PENDING and DONE.
const TotalSteps = 4

// stepOf maps a working stage to its 1-based progress counter.
var stepOf = map[JobStatus]int{
	StatusPending:          0,
	StatusResolvingPlayer:  1,
	StatusFetchingMatches:  2,
	StatusBuildingInsights: 3,
	StatusGeneratingStory:  4,
	StatusDone:             TotalSteps,
}

// StepOf returns the progress counter for a stage. FAILED has no step of its
// own; the record keeps the counter of the stage that failed.
func StepOf(status JobStatus) int {
	return stepOf[status]
}

// IsTerminal reports whether no further transitions are permitted.
func (s JobStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// RewindJob is the progress record for one pipeline run. A single worker owns
// all writes for a given id; any number of pollers read it concurrently.
type RewindJob struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Kind        JobKind    `gorm:"size:16;not null;index" json:"kind"`
	Status      JobStatus  `gorm:"size:32;not null;index" json:"status"`
	CurrentStep int        `gorm:"not null" json:"current_step"`
	TotalSteps  int        `gorm:"not null" json:"total_steps"`
	Message     string     `gorm:"size:200" json:"message"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Request parameters, kept so the worker can run from the queue message
	// alone and so failed jobs stay diagnosable.
	GameName string `gorm:"size:32" json:"game_name"`
	TagLine  string `gorm:"size:8" json:"tag_line"`
	Region   string `gorm:"size:8" json:"region"`
	Year     int    `gorm:"not null" json:"year"`

	// Second player, compare jobs only.
	GameName2 string `gorm:"size:32" json:"game_name2,omitempty"`
	TagLine2  string `gorm:"size:8" json:"tag_line2,omitempty"`
	Region2   string `gorm:"size:8" json:"region2,omitempty"`
}

func (RewindJob) TableName() string {
	return "rewind_jobs"
}
