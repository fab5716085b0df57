package models

import "time"

// Vehicle is a single row of the vehicles table. ImagePath is empty when no
// image was ever attached; when set it is a public path under /uploads.
type Vehicle struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Brand          string    `gorm:"size:100;not null" json:"brand"`
	Model          string    `gorm:"size:100;not null" json:"model"`
	ImagePath      string    `gorm:"size:255" json:"image_path"`
	TechnicalSpecs string    `gorm:"type:text" json:"technical_specs"`
	CreatedAt      time.Time `json:"created_at"`
}
