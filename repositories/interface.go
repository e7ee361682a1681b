package repositories

import (
	"errors"

	"ieqi-server/entities"
)

var (
	// ErrNotStored means the insert completed without a driver error but
	// reported that no row was written.
	ErrNotStored = errors.New("reading was not stored")

	// ErrNotFound means the query matched no rows.
	ErrNotFound = errors.New("reading not found")
)

type ReadingRepository interface {
	Create(reading *entities.Reading) error
	ListRecent(limit int) ([]entities.Reading, error)
	Latest() (*entities.Reading, error)
}
