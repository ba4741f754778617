package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationConfirmed, ReservationPending, false},
		{ReservationCancelled, ReservationPending, false},
		{ReservationCancelled, ReservationConfirmed, false},
		{ReservationCancelled, ReservationCancelled, true},
		{ReservationPending, ReservationPending, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReservationStatus_HoldsSlot(t *testing.T) {
	assert.True(t, ReservationPending.HoldsSlot())
	assert.True(t, ReservationConfirmed.HoldsSlot())
	assert.False(t, ReservationCancelled.HoldsSlot())
	assert.False(t, ReservationStatus("archived").Valid())
}

func TestSlot_Contains(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := Slot{DateStart: start, DateEnd: start.Add(time.Hour)}

	assert.True(t, s.Contains(start))
	assert.True(t, s.Contains(start.Add(59*time.Minute)))
	assert.False(t, s.Contains(start.Add(time.Hour)))
	assert.False(t, s.Contains(start.Add(-time.Minute)))
}

func TestPageRequest_Normalize(t *testing.T) {
	p := PageRequest{}.Normalize()
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 0, p.Offset())

	p = PageRequest{Number: 3, Size: 500}.Normalize()
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 200, p.Offset())

	page := NewPage[int](p, 0, nil)
	assert.NotNil(t, page.List)
}
