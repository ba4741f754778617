package service

import (
	"context"
	"fmt"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/metrics"
	"legalbooking/internal/repository"
)

// slotAvailability owns the available flag of slots. It is always built from
// the repositories of the transaction the caller is running in.
type slotAvailability struct {
	slots        repository.SlotRepository
	reservations repository.ReservationRepository
}

func availabilityFor(repos repository.Repositories) slotAvailability {
	return slotAvailability{slots: repos.Slots, reservations: repos.Reservations}
}

// MarkReserved flips the slot to unavailable. It fails with a conflict when the
// slot is missing or another reservation already took it.
func (a slotAvailability) MarkReserved(ctx context.Context, slotID uint) error {
	ok, err := a.slots.MarkUnavailable(ctx, slotID)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if !ok {
		metrics.SlotConflict()
		return apperrors.Conflict("SLOT_UNAVAILABLE", fmt.Sprintf("slot %d is not available", slotID))
	}
	return nil
}

// MarkReleased makes the slot available again. A missing slot is ignored.
func (a slotAvailability) MarkReleased(ctx context.Context, slotID uint) error {
	if err := a.slots.MarkAvailable(ctx, slotID); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}

// CanDelete reports whether no reservation references the slot.
func (a slotAvailability) CanDelete(ctx context.Context, slotID uint) (bool, error) {
	n, err := a.reservations.CountBySlot(ctx, slotID)
	if err != nil {
		return false, fmt.Errorf("count reservations: %w", err)
	}
	return n == 0, nil
}
