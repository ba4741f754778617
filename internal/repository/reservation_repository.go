package repository

import (
	"context"

	"gorm.io/gorm"

	"legalbooking/internal/model"
)

// ReservationRepository defines reservation persistence operations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint, status model.ReservationStatus) error
	FindByID(ctx context.Context, id uint) (*model.Reservation, error)
	FindByTrackingCode(ctx context.Context, code string) (*model.Reservation, error)
	ExistsTrackingCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Reservation, int64, error)
	Delete(ctx context.Context, id uint) error
	CountBySlot(ctx context.Context, slotID uint) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

var reservationPreloads = []string{"User", "Slot", "Slot.Lawyer", "Lawyer"}

func (r *reservationRepository) withAssociations(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range reservationPreloads {
		q = q.Preload(p)
	}
	return q
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Omit("User", "Slot", "Lawyer").Create(reservation).Error
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uint, status model.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.withAssociations(ctx).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.withAssociations(ctx).Where("tracking_code = ?", code).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) ExistsTrackingCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).Where("tracking_code = ?", code).Count(&n).Error
	return n > 0, err
}

func (r *reservationRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Reservation, int64, error) {
	return paginate[model.Reservation](ownedBy(r.db.WithContext(ctx), "user_id", opts), opts, "id", reservationPreloads...)
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) CountBySlot(ctx context.Context, slotID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).Where("slot_id = ?", slotID).Count(&n).Error
	return n, err
}

func (r *reservationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
