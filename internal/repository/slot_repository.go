package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"legalbooking/internal/model"
)

// holdingStatuses are the reservation statuses that keep a slot unavailable.
var holdingStatuses = []model.ReservationStatus{model.ReservationPending, model.ReservationConfirmed}

// SlotRepository defines slot persistence operations.
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	CreateBatch(ctx context.Context, slots []model.Slot) error
	Update(ctx context.Context, slot *model.Slot) error
	FindByID(ctx context.Context, id uint) (*model.Slot, error)
	FindByInterval(ctx context.Context, lawyerID uint, start, end time.Time) (*model.Slot, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Slot, int64, error)
	Search(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error)
	ListOrderedByStart(ctx context.Context) ([]model.Slot, error)
	Delete(ctx context.Context, id uint) error
	// MarkUnavailable flips available from true to false and reports whether
	// this call performed the flip.
	MarkUnavailable(ctx context.Context, id uint) (bool, error)
	MarkAvailable(ctx context.Context, id uint) error
	CountByLawyer(ctx context.Context, lawyerID uint) (int64, error)
	// FindOrphaned returns unavailable slots without a holding reservation.
	FindOrphaned(ctx context.Context) ([]uint, error)
	// FindUnblocked returns available slots that have a holding reservation.
	FindUnblocked(ctx context.Context) ([]uint, error)
	SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error)
}

type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

// Update writes the lawyer and interval only; availability has its own methods.
func (r *slotRepository) Update(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Model(slot).
		Select("LawyerID", "DateStart", "DateEnd").
		Updates(slot).Error
}

func (r *slotRepository) FindByID(ctx context.Context, id uint) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).Preload("Lawyer").First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByInterval(ctx context.Context, lawyerID uint, start, end time.Time) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).
		Where("lawyer_id = ? AND date_start = ? AND date_end = ?", lawyerID, start, end).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Slot, int64, error) {
	return paginate[model.Slot](r.db.WithContext(ctx), opts, "id", "Lawyer")
}

func (r *slotRepository) Search(ctx context.Context, f model.SlotFilter) ([]model.Slot, error) {
	q := r.db.WithContext(ctx).Model(&model.Slot{}).Preload("Lawyer")
	if f.LawyerID != nil {
		q = q.Where("slots.lawyer_id = ?", *f.LawyerID)
	}
	if f.LawyerSpeciality != nil {
		q = q.Joins("JOIN lawyers ON lawyers.id = slots.lawyer_id").
			Where("lawyers.speciality = ?", *f.LawyerSpeciality)
	}
	if f.Available != nil {
		q = q.Where("slots.available = ?", *f.Available)
	}
	if f.StartDate != nil {
		q = q.Where("slots.date_start >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("slots.date_end <= ?", *f.EndDate)
	}

	var slots []model.Slot
	if err := q.Order("slots.date_start").Order("slots.id").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) ListOrderedByStart(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	if err := r.db.WithContext(ctx).Preload("Lawyer").
		Order("date_start").Order("date_end").Order("id").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Slot{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *slotRepository) MarkUnavailable(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ? AND available = ?", id, true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *slotRepository) MarkAvailable(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ?", id).
		Update("available", true).Error
}

func (r *slotRepository) CountByLawyer(ctx context.Context, lawyerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Slot{}).Where("lawyer_id = ?", lawyerID).Count(&n).Error
	return n, err
}

func (r *slotRepository) holding() *gorm.DB {
	return r.db.Model(&model.Reservation{}).
		Select("1").
		Where("reservations.slot_id = slots.id AND reservations.status IN ?", holdingStatuses)
}

func (r *slotRepository) FindOrphaned(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("available = ? AND NOT EXISTS (?)", false, r.holding()).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *slotRepository) FindUnblocked(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("available = ? AND EXISTS (?)", true, r.holding()).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *slotRepository) SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id IN ? AND available = ?", ids, !available).
		Update("available", available)
	return res.RowsAffected, res.Error
}
