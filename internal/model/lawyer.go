package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lawyer offers consultation slots.
type Lawyer struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	FirstName       string          `json:"firstName" gorm:"size:100;not null"`
	SecondName      string          `json:"secondName" gorm:"size:100"`
	Email           string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone           string          `json:"phone" gorm:"size:30"`
	Speciality      string          `json:"speciality" gorm:"size:100;index;not null"`
	Active          bool            `json:"active" gorm:"not null"`
	ConsultationFee decimal.Decimal `json:"consultationFee" gorm:"type:decimal(12,2);not null"`
	CreationDate    time.Time       `json:"creationDate" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// LawyerSummary is the compact lawyer view used in slot groupings.
type LawyerSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	SecondName string `json:"secondName"`
	Speciality string `json:"speciality"`
}

// Summary returns the compact view of l.
func (l *Lawyer) Summary() LawyerSummary {
	return LawyerSummary{
		ID:         l.ID,
		FirstName:  l.FirstName,
		SecondName: l.SecondName,
		Speciality: l.Speciality,
	}
}
