// Package models defines the GORM row types for the poster tracker.
package models

import "time"

// Topic is one tracked poster concept. Step state is stored as JSON
// text in Variants; GlobalSteps is a legacy column kept so older
// readers of the same table keep working — it is always written "{}".
type Topic struct {
	ID          string    `gorm:"primaryKey;size:32"`
	Label       string    `gorm:"not null"`
	OrderNum    int       `gorm:"not null;default:0"`
	GlobalSteps string    `gorm:"type:text"`
	Variants    string    `gorm:"type:text"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName keeps the historical table name used by earlier versions
// of the tracker.
func (Topic) TableName() string {
	return "artist_progress"
}
