package entities

import "time"

// Reading is one ingested sensor record. ID and CreatedAt are assigned by the
// store at insert time and never supplied by callers.
type Reading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DeviceID    string    `gorm:"not null;index" json:"device_id"`
	Temperature float64   `gorm:"not null" json:"temperature"`
	Humidity    float64   `gorm:"not null" json:"humidity"`
	Light       float64   `gorm:"not null" json:"light"`
	IEQI        float64   `gorm:"column:ieqi;not null" json:"ieqi"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Reading) TableName() string { return "ieqi_logs" }
