package service

import (
	"context"
	"fmt"
	"time"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

// SlotInput describes a slot to create.
type SlotInput struct {
	LawyerID  uint
	DateStart time.Time
	DateEnd   time.Time
}

// UpdateSlotInput lists the updatable slot fields. Availability is not one of them.
type UpdateSlotInput struct {
	LawyerID  *uint
	DateStart *time.Time
	DateEnd   *time.Time
}

// SlotService manages lawyer availability slots.
type SlotService interface {
	Create(ctx context.Context, in SlotInput) (*model.Slot, error)
	CreateMultiple(ctx context.Context, in []SlotInput) ([]model.Slot, error)
	FindOne(ctx context.Context, id uint) (*model.Slot, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.Slot], error)
	Search(ctx context.Context, f model.SlotFilter) ([]model.Slot, error)
	GroupByDate(ctx context.Context) ([]model.SlotGroup, error)
	Update(ctx context.Context, id uint, in UpdateSlotInput) (*model.Slot, error)
	Remove(ctx context.Context, id uint) error
}

type slotService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

// NewSlotService builds a SlotService.
func NewSlotService(repos repository.Repositories, tx repository.Transactor) SlotService {
	return &slotService{repos: repos, tx: tx}
}

var slotSortable = map[string]string{
	"id":        "id",
	"dateStart": "date_start",
	"dateEnd":   "date_end",
	"lawyerId":  "lawyer_id",
	"available": "available",
}

func validInterval(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.Validation("INVALID_INTERVAL", "dateEnd must be after dateStart")
	}
	return nil
}

func duplicateSlot(lawyerID uint, start, end time.Time) error {
	return apperrors.Conflict("DUPLICATE_SLOT", fmt.Sprintf(
		"lawyer %d already has a slot from %s to %s",
		lawyerID, start.Format(time.RFC3339), end.Format(time.RFC3339)))
}

// checkDuplicate fails when another slot row than exceptID has the same lawyer and interval.
func checkDuplicate(ctx context.Context, slots repository.SlotRepository, lawyerID uint, start, end time.Time, exceptID uint) error {
	existing, err := slots.FindByInterval(ctx, lawyerID, start, end)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("check duplicate slot: %w", err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return duplicateSlot(lawyerID, start, end)
}

func (s *slotService) Create(ctx context.Context, in SlotInput) (*model.Slot, error) {
	start, end := in.DateStart.UTC(), in.DateEnd.UTC()
	if err := validInterval(start, end); err != nil {
		return nil, err
	}
	lawyer, err := s.repos.Lawyers.FindByID(ctx, in.LawyerID)
	if err != nil {
		return nil, notFoundOr(err, "lawyer", in.LawyerID)
	}
	if err := checkDuplicate(ctx, s.repos.Slots, in.LawyerID, start, end, 0); err != nil {
		return nil, err
	}

	slot := &model.Slot{LawyerID: in.LawyerID, DateStart: start, DateEnd: end, Available: true}
	if err := s.repos.Slots.Create(ctx, slot); err != nil {
		if isDuplicate(err) {
			return nil, duplicateSlot(in.LawyerID, start, end)
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}
	slot.Lawyer = lawyer
	return slot, nil
}

// CreateMultiple inserts every slot or none.
func (s *slotService) CreateMultiple(ctx context.Context, in []SlotInput) ([]model.Slot, error) {
	if len(in) == 0 {
		return nil, apperrors.Validation("EMPTY_BATCH", "at least one slot is required")
	}

	var created []model.Slot
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		lawyers := make(map[uint]*model.Lawyer)
		seen := make(map[string]struct{}, len(in))
		slots := make([]model.Slot, 0, len(in))

		for _, item := range in {
			start, end := item.DateStart.UTC(), item.DateEnd.UTC()
			if err := validInterval(start, end); err != nil {
				return err
			}
			if _, ok := lawyers[item.LawyerID]; !ok {
				lawyer, err := repos.Lawyers.FindByID(ctx, item.LawyerID)
				if err != nil {
					return notFoundOr(err, "lawyer", item.LawyerID)
				}
				lawyers[item.LawyerID] = lawyer
			}

			key := fmt.Sprintf("%d|%d|%d", item.LawyerID, start.UnixNano(), end.UnixNano())
			if _, dup := seen[key]; dup {
				return duplicateSlot(item.LawyerID, start, end)
			}
			seen[key] = struct{}{}

			if err := checkDuplicate(ctx, repos.Slots, item.LawyerID, start, end, 0); err != nil {
				return err
			}
			slots = append(slots, model.Slot{LawyerID: item.LawyerID, DateStart: start, DateEnd: end, Available: true})
		}

		if err := repos.Slots.CreateBatch(ctx, slots); err != nil {
			if isDuplicate(err) {
				return apperrors.Conflict("DUPLICATE_SLOT", "batch contains an existing slot")
			}
			return fmt.Errorf("create slots: %w", err)
		}
		for i := range slots {
			slots[i].Lawyer = lawyers[slots[i].LawyerID]
		}
		created = slots
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *slotService) FindOne(ctx context.Context, id uint) (*model.Slot, error) {
	slot, err := s.repos.Slots.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "slot", id)
	}
	return slot, nil
}

func (s *slotService) List(ctx context.Context, q ListQuery) (model.Page[model.Slot], error) {
	opts, err := listOptions(q, slotSortable)
	if err != nil {
		return model.Page[model.Slot]{}, err
	}
	items, total, err := s.repos.Slots.List(ctx, opts)
	if err != nil {
		return model.Page[model.Slot]{}, fmt.Errorf("list slots: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

// Search returns the slots matching every set field of f, ordered by start.
func (s *slotService) Search(ctx context.Context, f model.SlotFilter) ([]model.Slot, error) {
	if f.StartDate != nil {
		start := f.StartDate.UTC()
		f.StartDate = &start
	}
	if f.EndDate != nil {
		end := f.EndDate.UTC()
		f.EndDate = &end
	}
	slots, err := s.repos.Slots.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search slots: %w", err)
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	return slots, nil
}

// GroupByDate groups every slot by its exact interval, in order of first appearance.
func (s *slotService) GroupByDate(ctx context.Context) ([]model.SlotGroup, error) {
	slots, err := s.repos.Slots.ListOrderedByStart(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return groupSlots(slots), nil
}

func groupSlots(slots []model.Slot) []model.SlotGroup {
	type interval struct{ start, end int64 }

	groups := []model.SlotGroup{}
	index := make(map[interval]int)
	for _, slot := range slots {
		key := interval{slot.DateStart.UnixNano(), slot.DateEnd.UnixNano()}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.SlotGroup{
				DateStart: slot.DateStart,
				DateEnd:   slot.DateEnd,
				Lawyers:   []model.LawyerSummary{},
			})
		}
		summary := model.LawyerSummary{ID: slot.LawyerID}
		if slot.Lawyer != nil {
			summary = slot.Lawyer.Summary()
		}
		groups[i].Lawyers = append(groups[i].Lawyers, summary)
	}
	return groups
}

func (s *slotService) Update(ctx context.Context, id uint, in UpdateSlotInput) (*model.Slot, error) {
	var updated *model.Slot
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		slot, err := repos.Slots.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "slot", id)
		}

		changed := false
		if in.LawyerID != nil && *in.LawyerID != slot.LawyerID {
			if _, err := repos.Lawyers.FindByID(ctx, *in.LawyerID); err != nil {
				return notFoundOr(err, "lawyer", *in.LawyerID)
			}
			n, err := repos.Reservations.CountBySlot(ctx, id)
			if err != nil {
				return fmt.Errorf("count reservations: %w", err)
			}
			if n > 0 {
				return apperrors.Conflict("SLOT_HAS_RESERVATIONS", "cannot move a reserved slot to another lawyer")
			}
			slot.LawyerID = *in.LawyerID
			changed = true
		}
		if in.DateStart != nil {
			slot.DateStart = in.DateStart.UTC()
			changed = true
		}
		if in.DateEnd != nil {
			slot.DateEnd = in.DateEnd.UTC()
			changed = true
		}
		if !changed {
			updated = slot
			return nil
		}

		if err := validInterval(slot.DateStart, slot.DateEnd); err != nil {
			return err
		}
		if err := checkDuplicate(ctx, repos.Slots, slot.LawyerID, slot.DateStart, slot.DateEnd, slot.ID); err != nil {
			return err
		}
		if err := repos.Slots.Update(ctx, slot); err != nil {
			if isDuplicate(err) {
				return duplicateSlot(slot.LawyerID, slot.DateStart, slot.DateEnd)
			}
			return fmt.Errorf("update slot: %w", err)
		}

		updated, err = repos.Slots.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reload slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a slot that no reservation references.
func (s *slotService) Remove(ctx context.Context, id uint) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Slots.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "slot", id)
		}
		ok, err := availabilityFor(repos).CanDelete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Conflict("SLOT_HAS_RESERVATIONS", fmt.Sprintf("slot %d has reservations", id))
		}
		if err := repos.Slots.Delete(ctx, id); err != nil {
			return notFoundOr(err, "slot", id)
		}
		return nil
	})
}
