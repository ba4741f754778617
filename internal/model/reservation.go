package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled},
}

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// HoldsSlot reports whether a reservation in status s keeps its slot unavailable.
func (s ReservationStatus) HoldsSlot() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Staying in the same status is always allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation binds a user to a slot.
type Reservation struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	UserID       uint              `json:"userId" gorm:"not null;index"`
	User         *User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SlotID       uint              `json:"slotId" gorm:"not null;index"`
	Slot         *Slot             `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
	LawyerID     uint              `json:"lawyerId" gorm:"not null;index"`
	Lawyer       *Lawyer           `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	TrackingCode string            `json:"trackingCode" gorm:"uniqueIndex;size:20;not null"`
	Status       ReservationStatus `json:"status" gorm:"size:20;not null;index"`
	Fee          decimal.Decimal   `json:"fee" gorm:"type:decimal(12,2);not null"`
	CreationDate time.Time         `json:"creationDate" gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
