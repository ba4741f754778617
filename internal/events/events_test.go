package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooking/internal/model"
)

func TestNewReservationEvent(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	r := &model.Reservation{
		ID:           4,
		UserID:       1,
		SlotID:       2,
		LawyerID:     3,
		TrackingCode: "a1b2c3d4e5",
		Status:       model.ReservationPending,
		Fee:          decimal.RequireFromString("80.50"),
		User:         &model.User{FirstName: "Luis", SecondName: "Gómez", Email: "luis@example.com"},
		Slot: &model.Slot{
			DateStart: start,
			DateEnd:   start.Add(time.Hour),
			Lawyer:    &model.Lawyer{FirstName: "Ana", SecondName: "Ruiz"},
		},
	}

	evt := NewReservationEvent(ReservationCreated, r)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, ReservationCreated, evt.Type)
	assert.Equal(t, "Luis Gómez", evt.UserName)
	assert.Equal(t, "Ana Ruiz", evt.LawyerName)
	assert.Equal(t, start, evt.DateStart)

	body, err := json.Marshal(evt)
	require.NoError(t, err)
	decoded, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, evt.TrackingCode, decoded.TrackingCode)
	assert.True(t, evt.Fee.Equal(decoded.Fee))

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}

func TestKeyForStatus(t *testing.T) {
	assert.Equal(t, ReservationConfirmed, KeyForStatus(model.ReservationConfirmed))
	assert.Equal(t, ReservationCancelled, KeyForStatus(model.ReservationCancelled))
	assert.Equal(t, ReservationCreated, KeyForStatus(model.ReservationPending))
}
