package model

import "time"

// Slot is a bookable half-open interval [DateStart, DateEnd) of one lawyer.
// Available is false exactly when a non-cancelled reservation references it.
type Slot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LawyerID  uint      `json:"lawyerId" gorm:"not null;uniqueIndex:idx_slot_lawyer_interval"`
	Lawyer    *Lawyer   `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	DateStart time.Time `json:"dateStart" gorm:"not null;uniqueIndex:idx_slot_lawyer_interval;index"`
	DateEnd   time.Time `json:"dateEnd" gorm:"not null;uniqueIndex:idx_slot_lawyer_interval"`
	Available bool      `json:"available" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contains reports whether t falls inside the slot interval.
func (s *Slot) Contains(t time.Time) bool {
	return !t.Before(s.DateStart) && t.Before(s.DateEnd)
}

// SlotFilter narrows a slot search. Nil fields are ignored and the rest are
// combined with AND.
type SlotFilter struct {
	LawyerID         *uint
	LawyerSpeciality *string
	Available        *bool
	StartDate        *time.Time
	EndDate          *time.Time
}

// SlotGroup lists the lawyers offering one exact interval.
type SlotGroup struct {
	DateStart time.Time       `json:"dateStart"`
	DateEnd   time.Time       `json:"dateEnd"`
	Lawyers   []LawyerSummary `json:"lawyers"`
}
