package usecases

import (
	"errors"
	"fmt"

	"ieqi-server/entities"
	"ieqi-server/repositories"
)

// RecentLimit caps the history returned by ListRecent.
const RecentLimit = 50

var ErrNoReadings = errors.New("no readings stored")

// ReadingSink receives every reading after it has been stored.
// Implementations must not block the request path.
type ReadingSink interface {
	Publish(reading entities.Reading)
}

type ReadingUseCase struct {
	Repo  repositories.ReadingRepository
	sinks []ReadingSink
}

func NewReadingUseCase(repo repositories.ReadingRepository, sinks ...ReadingSink) *ReadingUseCase {
	return &ReadingUseCase{Repo: repo, sinks: sinks}
}

// Ingest validates body and stores it as a new reading.
func (uc *ReadingUseCase) Ingest(body []byte) (*entities.Reading, error) {
	reading, err := ParseReading(body)
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.Create(reading); err != nil {
		if errors.Is(err, repositories.ErrNotStored) {
			return nil, err
		}
		return nil, fmt.Errorf("store reading from %s: %w", reading.DeviceID, err)
	}

	for _, sink := range uc.sinks {
		sink.Publish(*reading)
	}
	return reading, nil
}

// ListRecent returns up to RecentLimit readings, newest first.
func (uc *ReadingUseCase) ListRecent() ([]entities.Reading, error) {
	return uc.Repo.ListRecent(RecentLimit)
}

// Latest returns the most recent reading, or ErrNoReadings.
func (uc *ReadingUseCase) Latest() (*entities.Reading, error) {
	reading, err := uc.Repo.Latest()
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoReadings
	}
	if err != nil {
		return nil, err
	}
	return reading, nil
}
