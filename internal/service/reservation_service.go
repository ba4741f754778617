package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/events"
	"legalbooking/internal/metrics"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

// CreateReservationInput is the payload for booking a slot.
type CreateReservationInput struct {
	UserID uint
	SlotID uint
	Status model.ReservationStatus
}

// UpdateReservationInput lists the updatable reservation fields.
type UpdateReservationInput struct {
	Status *model.ReservationStatus
}

// ReservationService manages the reservation lifecycle and keeps slot
// availability in step with it.
type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error)
	FindOne(ctx context.Context, id uint) (*model.Reservation, error)
	FindByTrackingCode(ctx context.Context, code string) (*model.Reservation, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.Reservation], error)
	Update(ctx context.Context, id uint, in UpdateReservationInput) (*model.Reservation, error)
	Remove(ctx context.Context, id uint) error
}

type reservationService struct {
	repos     repository.Repositories
	tx        repository.Transactor
	publisher events.Publisher
	codes     CodeGenerator
	logger    *slog.Logger
}

// NewReservationService builds a ReservationService.
func NewReservationService(
	repos repository.Repositories,
	tx repository.Transactor,
	publisher events.Publisher,
	logger *slog.Logger,
) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &reservationService{
		repos:     repos,
		tx:        tx,
		publisher: publisher,
		codes:     NewTrackingCode,
		logger:    logger,
	}
}

var reservationSortable = map[string]string{
	"id":           "id",
	"status":       "status",
	"creationDate": "creation_date",
}

func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	status := in.Status
	if status == "" {
		status = model.ReservationPending
	}
	if !status.HoldsSlot() {
		return nil, apperrors.Validation("INVALID_STATUS", fmt.Sprintf("a reservation cannot be created as %q", status))
	}

	if _, err := s.repos.Users.FindByID(ctx, in.UserID); err != nil {
		return nil, notFoundOr(err, "user", in.UserID)
	}

	var created *model.Reservation
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		slot, err := repos.Slots.FindByID(ctx, in.SlotID)
		if err != nil {
			return notFoundOr(err, "slot", in.SlotID)
		}
		if !slot.Available {
			metrics.SlotConflict()
			return apperrors.Conflict("SLOT_UNAVAILABLE", fmt.Sprintf("slot %d is not available", slot.ID))
		}
		if err := availabilityFor(repos).MarkReserved(ctx, slot.ID); err != nil {
			return err
		}

		code, err := uniqueTrackingCode(ctx, s.codes, repos.Reservations)
		if err != nil {
			return err
		}

		fee := decimal.Zero
		if slot.Lawyer != nil {
			fee = slot.Lawyer.ConsultationFee
		}
		reservation := &model.Reservation{
			UserID:       in.UserID,
			SlotID:       slot.ID,
			LawyerID:     slot.LawyerID,
			TrackingCode: code,
			Status:       status,
			Fee:          fee,
		}
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			if isDuplicate(err) {
				return apperrors.Conflict("TRACKING_CODE_TAKEN", "tracking code collision, retry the request")
			}
			return fmt.Errorf("create reservation: %w", err)
		}

		created, err = repos.Reservations.FindByID(ctx, reservation.ID)
		if err != nil {
			return fmt.Errorf("reload reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, events.ReservationCreated, created)
	return created, nil
}

func (s *reservationService) FindOne(ctx context.Context, id uint) (*model.Reservation, error) {
	r, err := s.repos.Reservations.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "reservation", id)
	}
	return r, nil
}

func (s *reservationService) FindByTrackingCode(ctx context.Context, code string) (*model.Reservation, error) {
	r, err := s.repos.Reservations.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, "reservation", code)
	}
	return r, nil
}

func (s *reservationService) List(ctx context.Context, q ListQuery) (model.Page[model.Reservation], error) {
	opts, err := listOptions(q, reservationSortable)
	if err != nil {
		return model.Page[model.Reservation]{}, err
	}
	items, total, err := s.repos.Reservations.List(ctx, opts)
	if err != nil {
		return model.Page[model.Reservation]{}, fmt.Errorf("list reservations: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

func (s *reservationService) Update(ctx context.Context, id uint, in UpdateReservationInput) (*model.Reservation, error) {
	if in.Status == nil {
		return s.FindOne(ctx, id)
	}
	next := *in.Status
	if !next.Valid() {
		return nil, apperrors.Validation("INVALID_STATUS", fmt.Sprintf("unknown status %q", next))
	}

	var (
		updated *model.Reservation
		changed bool
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := repos.Reservations.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "reservation", id)
		}
		updated = r
		if r.Status == next {
			return nil
		}
		if !r.Status.CanTransitionTo(next) {
			return apperrors.Conflict("INVALID_TRANSITION",
				fmt.Sprintf("reservation cannot move from %s to %s", r.Status, next))
		}

		if err := repos.Reservations.UpdateStatus(ctx, id, next); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		if r.Status.HoldsSlot() && !next.HoldsSlot() {
			if err := availabilityFor(repos).MarkReleased(ctx, r.SlotID); err != nil {
				return err
			}
			if r.Slot != nil {
				r.Slot.Available = true
			}
		}
		r.Status = next
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.announce(ctx, events.KeyForStatus(next), updated)
	}
	return updated, nil
}

// Remove deletes the reservation and frees its slot if it still held one.
func (s *reservationService) Remove(ctx context.Context, id uint) error {
	var removed *model.Reservation
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := repos.Reservations.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "reservation", id)
		}
		if r.Status.HoldsSlot() {
			if err := availabilityFor(repos).MarkReleased(ctx, r.SlotID); err != nil {
				return err
			}
		}
		if err := repos.Reservations.Delete(ctx, id); err != nil {
			return notFoundOr(err, "reservation", id)
		}
		removed = r
		return nil
	})
	if err != nil {
		return err
	}

	s.announce(ctx, events.ReservationRemoved, removed)
	return nil
}

// announce publishes evt after commit. Failures are logged only.
func (s *reservationService) announce(ctx context.Context, key string, r *model.Reservation) {
	metrics.ReservationEvent(key)
	s.logger.InfoContext(ctx, "reservation event",
		slog.String("event", key),
		slog.Uint64("reservation_id", uint64(r.ID)),
		slog.String("tracking_code", r.TrackingCode),
		slog.Uint64("slot_id", uint64(r.SlotID)),
	)
	if err := s.publisher.Publish(ctx, events.NewReservationEvent(key, r)); err != nil {
		s.logger.WarnContext(ctx, "publish reservation event failed",
			slog.String("event", key),
			slog.Uint64("reservation_id", uint64(r.ID)),
			slog.Any("error", err),
		)
	}
}
