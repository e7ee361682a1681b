package repositories

import (
	"errors"
	"fmt"

	"ieqi-server/db"
	"ieqi-server/entities"

	"gorm.io/gorm"
)

// newestFirst orders by creation time, with the auto-increment id breaking
// ties between rows inserted within the same clock tick.
const newestFirst = "created_at DESC, id DESC"

type readingGormRepository struct {
	db db.Database
}

func NewReadingRepository(database db.Database) ReadingRepository {
	return &readingGormRepository{db: database}
}

func (r *readingGormRepository) Create(reading *entities.Reading) error {
	result := r.db.GetDB().Create(reading)
	if result.Error != nil {
		return fmt.Errorf("insert reading: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotStored
	}
	return nil
}

func (r *readingGormRepository) ListRecent(limit int) ([]entities.Reading, error) {
	readings := []entities.Reading{}
	err := r.db.GetDB().Order(newestFirst).Limit(limit).Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

func (r *readingGormRepository) Latest() (*entities.Reading, error) {
	var reading entities.Reading
	err := r.db.GetDB().Order(newestFirst).Take(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	return &reading, nil
}
