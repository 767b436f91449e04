package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/riftrewind/rewind-server/internal/model"
)

type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Save(record *model.ResultRecord) error {
	return r.db.Create(record).Error
}

func (r *ResultRepository) GetByJobID(jobID string) (*model.ResultRecord, error) {
	var record model.ResultRecord
	if err := r.db.Where("job_id = ?", jobID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResultRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&model.ResultRecord{})
	return result.RowsAffected, result.Error
}
