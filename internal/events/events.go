// Package events publishes reservation lifecycle events to RabbitMQ.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"legalbooking/internal/model"
)

// Routing keys on the reservation topic exchange.
const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
	ReservationRemoved   = "reservation.removed"
)

// AllReservationKeys lists every reservation routing key.
var AllReservationKeys = []string{
	ReservationCreated,
	ReservationConfirmed,
	ReservationCancelled,
	ReservationRemoved,
}

// ReservationEvent is the message body of every reservation event.
type ReservationEvent struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	OccurredAt    time.Time       `json:"occurredAt"`
	ReservationID uint            `json:"reservationId"`
	TrackingCode  string          `json:"trackingCode"`
	Status        string          `json:"status"`
	UserID        uint            `json:"userId"`
	UserEmail     string          `json:"userEmail,omitempty"`
	UserName      string          `json:"userName,omitempty"`
	LawyerID      uint            `json:"lawyerId"`
	LawyerName    string          `json:"lawyerName,omitempty"`
	SlotID        uint            `json:"slotId"`
	DateStart     time.Time       `json:"dateStart"`
	DateEnd       time.Time       `json:"dateEnd"`
	Fee           decimal.Decimal `json:"fee"`
}

// NewReservationEvent builds an event of type key from r and its loaded associations.
func NewReservationEvent(key string, r *model.Reservation) ReservationEvent {
	evt := ReservationEvent{
		ID:            uuid.NewString(),
		Type:          key,
		OccurredAt:    time.Now().UTC(),
		ReservationID: r.ID,
		TrackingCode:  r.TrackingCode,
		Status:        string(r.Status),
		UserID:        r.UserID,
		LawyerID:      r.LawyerID,
		SlotID:        r.SlotID,
		Fee:           r.Fee,
	}
	if r.User != nil {
		evt.UserEmail = r.User.Email
		evt.UserName = r.User.FullName()
	}
	if r.Slot != nil {
		evt.DateStart = r.Slot.DateStart
		evt.DateEnd = r.Slot.DateEnd
		if r.Slot.Lawyer != nil {
			evt.LawyerName = r.Slot.Lawyer.FirstName + " " + r.Slot.Lawyer.SecondName
		}
	}
	if evt.LawyerName == "" && r.Lawyer != nil {
		evt.LawyerName = r.Lawyer.FirstName + " " + r.Lawyer.SecondName
	}
	return evt
}

// KeyForStatus returns the routing key announcing a move into status.
func KeyForStatus(status model.ReservationStatus) string {
	switch status {
	case model.ReservationConfirmed:
		return ReservationConfirmed
	case model.ReservationCancelled:
		return ReservationCancelled
	default:
		return ReservationCreated
	}
}

// Publisher sends reservation events.
type Publisher interface {
	Publish(ctx context.Context, evt ReservationEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
