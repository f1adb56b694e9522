package domain

// EmailTemplate Model, one per status
type EmailTemplate struct {
	ID      uint   `gorm:"primaryKey"`                   // Primary key
	Status  Status `gorm:"uniqueIndex;size:50;not null"` // Status the template announces
	Subject string `gorm:"size:200;not null"`            // Subject line with placeholders
	Body    string `gorm:"type:text;not null"`           // HTML body with placeholders
}
