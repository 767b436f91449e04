package dto

import (
	"regexp"
	"time"

	"github.com/riftrewind/rewind-server/internal/model"
)

var (
	gameNameRe = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	tagLineRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// validRegions is the set of platform routing values accepted by the API.
var validRegions = map[string]bool{
	"na1": true, "euw1": true, "eun1": true, "kr": true,
	"jp1": true, "br1": true, "la1": true, "la2": true,
	"oc1": true, "tr1": true, "ru": true, "ph2": true,
	"sg2": true, "th2": true, "tw2": true, "vn2": true,
}

const minYear = 2021

// StartRewindRequest is the body of POST /api/v1/jobs/rewind.
type StartRewindRequest struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
	Region   string `json:"region"`
	Year     int    `json:"year"`
}

// Validate returns field -> message for every invalid field, empty when ok.
func (r *StartRewindRequest) Validate() map[string]string {
	details := make(map[string]string)
	validatePlayerFields(details, "", r.GameName, r.TagLine, r.Region)
	validateYear(details, r.Year)
	return details
}

// PlayerInput identifies one player in a comparison request.
type PlayerInput struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
	Region   string `json:"region"`
}

// StartCompareRequest is the body of POST /api/v1/jobs/compare.
type StartCompareRequest struct {
	Player1 PlayerInput `json:"player1"`
	Player2 PlayerInput `json:"player2"`
	Year    int         `json:"year"`
}

// Validate prefixes field keys with the player slot, e.g. "player1.gameName".
func (r *StartCompareRequest) Validate() map[string]string {
	details := make(map[string]string)
	validatePlayerFields(details, "player1.", r.Player1.GameName, r.Player1.TagLine, r.Player1.Region)
	validatePlayerFields(details, "player2.", r.Player2.GameName, r.Player2.TagLine, r.Player2.Region)
	validateYear(details, r.Year)
	return details
}

func validatePlayerFields(details map[string]string, prefix, gameName, tagLine, region string) {
	if len(gameName) < 3 || len(gameName) > 16 {
		details[prefix+"gameName"] = "gameName must be 3-16 characters"
	} else if !gameNameRe.MatchString(gameName) {
		details[prefix+"gameName"] = "gameName may only contain letters, numbers and spaces"
	}
	if len(tagLine) < 3 || len(tagLine) > 5 {
		details[prefix+"tagLine"] = "tagLine must be 3-5 characters"
	} else if !tagLineRe.MatchString(tagLine) {
		details[prefix+"tagLine"] = "tagLine must be alphanumeric"
	}
	if !validRegions[region] {
		details[prefix+"region"] = "region is not a valid platform"
	}
}

func validateYear(details map[string]string, year int) {
	if year < minYear || year > time.Now().Year() {
		details["year"] = "year is out of range"
	}
}

// StartJobResponse acknowledges an accepted job.
type StartJobResponse struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JobProgress is the polling view of a job record.
type JobProgress struct {
	Status      model.JobStatus `json:"status"`
	CurrentStep int             `json:"currentStep"`
	TotalSteps  int             `json:"totalSteps"`
	Message     string          `json:"message"`
	StartedAt   time.Time       `json:"startedAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ProgressFromJob projects the stored job onto the wire shape.
func ProgressFromJob(job *model.RewindJob) JobProgress {
	return JobProgress{
		Status:      job.Status,
		CurrentStep: job.CurrentStep,
		TotalSteps:  job.TotalSteps,
		Message:     job.Message,
		StartedAt:   job.StartedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
		Error:       job.Error,
	}
}

// RewindStatusResponse is the body of GET /api/v1/jobs/rewind/:jobId.
// Result is attached only once the job is DONE.
type RewindStatusResponse struct {
	JobID    string              `json:"jobId"`
	Progress JobProgress         `json:"progress"`
	Result   *model.RewindResult `json:"result,omitempty"`
}

// CompareStatusResponse is the body of GET /api/v1/jobs/compare/:jobId.
type CompareStatusResponse struct {
	JobID    string               `json:"jobId"`
	Progress JobProgress          `json:"progress"`
	Result   *model.CompareResult `json:"result,omitempty"`
}
