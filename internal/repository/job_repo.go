package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/riftrewind/rewind-server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.RewindJob) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id string) (*model.RewindJob, error) {
	var job model.RewindJob
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.RewindJob) error {
	return r.db.Save(job).Error
}

// DeleteTerminalBefore removes DONE and FAILED jobs last touched before the
// cutoff. In-flight jobs are never swept.
func (r *JobRepository) DeleteTerminalBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("status IN ?", []model.JobStatus{model.StatusDone, model.StatusFailed}).
		Where("updated_at < ?", cutoff).
		Delete(&model.RewindJob{})
	return result.RowsAffected, result.Error
}
