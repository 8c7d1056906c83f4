package models

import "time"

// Security represents a BSE security list entry. The table is populated
// by the external ingestion job and is read-only for this service.
type Security struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SecurityCode string    `gorm:"index" json:"securityCode"`
	SecurityID   string    `json:"securityId"`
	SecurityName string    `gorm:"index" json:"securityName"`
	Status       string    `gorm:"default:Active" json:"status"`
	Group        string    `json:"group"`
	FaceValue    float64   `json:"faceValue"`
	ISINNo       string    `gorm:"index" json:"isin"`
	Industry     string    `json:"industry"`
	Instrument   string    `json:"instrument"`
	RecordID     int       `json:"recordId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func (Security) TableName() string {
	return "securities"
}
