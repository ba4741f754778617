package repository

import (
	"context"

	"gorm.io/gorm"

	"legalbooking/internal/model"
)

// LawyerRepository defines lawyer persistence operations.
type LawyerRepository interface {
	Create(ctx context.Context, lawyer *model.Lawyer) error
	Update(ctx context.Context, lawyer *model.Lawyer) error
	FindByID(ctx context.Context, id uint) (*model.Lawyer, error)
	FindByEmail(ctx context.Context, email string) (*model.Lawyer, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Lawyer, int64, error)
	Delete(ctx context.Context, id uint) error
}

type lawyerRepository struct {
	db *gorm.DB
}

// NewLawyerRepository creates a new lawyer repository.
func NewLawyerRepository(db *gorm.DB) LawyerRepository {
	return &lawyerRepository{db: db}
}

func (r *lawyerRepository) Create(ctx context.Context, lawyer *model.Lawyer) error {
	return r.db.WithContext(ctx).Create(lawyer).Error
}

func (r *lawyerRepository) Update(ctx context.Context, lawyer *model.Lawyer) error {
	return r.db.WithContext(ctx).Model(lawyer).
		Select("FirstName", "SecondName", "Email", "Phone", "Speciality", "Active", "ConsultationFee").
		Updates(lawyer).Error
}

func (r *lawyerRepository) FindByID(ctx context.Context, id uint) (*model.Lawyer, error) {
	var lawyer model.Lawyer
	if err := r.db.WithContext(ctx).First(&lawyer, id).Error; err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) FindByEmail(ctx context.Context, email string) (*model.Lawyer, error) {
	var lawyer model.Lawyer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&lawyer).Error; err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Lawyer, int64, error) {
	return paginate[model.Lawyer](r.db.WithContext(ctx), opts, "id")
}

func (r *lawyerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Lawyer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
