package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"legalbooking/internal/cache"
	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

const lawyerCacheTTL = 10 * time.Minute

// LawyerInput is the payload for creating a lawyer.
type LawyerInput struct {
	FirstName       string
	SecondName      string
	Email           string
	Phone           string
	Speciality      string
	Active          *bool
	ConsultationFee decimal.Decimal
}

// UpdateLawyerInput lists the updatable lawyer fields.
type UpdateLawyerInput struct {
	FirstName       *string
	SecondName      *string
	Email           *string
	Phone           *string
	Speciality      *string
	Active          *bool
	ConsultationFee *decimal.Decimal
}

// LawyerService exposes lawyer operations.
type LawyerService interface {
	Create(ctx context.Context, in LawyerInput) (*model.Lawyer, error)
	FindOne(ctx context.Context, id uint) (*model.Lawyer, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.Lawyer], error)
	Update(ctx context.Context, id uint, in UpdateLawyerInput) (*model.Lawyer, error)
	Remove(ctx context.Context, id uint) error
}

type lawyerService struct {
	repos repository.Repositories
	cache *cache.Client
}

// NewLawyerService builds a LawyerService with repositories and cache.
func NewLawyerService(repos repository.Repositories, cache *cache.Client) LawyerService {
	return &lawyerService{repos: repos, cache: cache}
}

var lawyerSortable = map[string]string{
	"id":           "id",
	"firstName":    "first_name",
	"speciality":   "speciality",
	"creationDate": "creation_date",
}

func (s *lawyerService) cacheKey(id uint) string {
	return fmt.Sprintf("lawyer:%d", id)
}

func (s *lawyerService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	existing, err := s.repos.Lawyers.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("check lawyer email: %w", err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return apperrors.Conflict("EMAIL_TAKEN", fmt.Sprintf("a lawyer with email %s already exists", email))
}

func (s *lawyerService) Create(ctx context.Context, in LawyerInput) (*model.Lawyer, error) {
	if in.ConsultationFee.IsNegative() {
		return nil, apperrors.Validation("INVALID_FEE", "consultationFee cannot be negative")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	lawyer := &model.Lawyer{
		FirstName:       in.FirstName,
		SecondName:      in.SecondName,
		Email:           email,
		Phone:           in.Phone,
		Speciality:      in.Speciality,
		Active:          in.Active == nil || *in.Active,
		ConsultationFee: in.ConsultationFee,
	}
	if err := s.repos.Lawyers.Create(ctx, lawyer); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("EMAIL_TAKEN", fmt.Sprintf("a lawyer with email %s already exists", email))
		}
		return nil, fmt.Errorf("create lawyer: %w", err)
	}
	return lawyer, nil
}

func (s *lawyerService) FindOne(ctx context.Context, id uint) (*model.Lawyer, error) {
	var cached model.Lawyer
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	lawyer, err := s.repos.Lawyers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "lawyer", id)
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), lawyer, lawyerCacheTTL)
	return lawyer, nil
}

func (s *lawyerService) List(ctx context.Context, q ListQuery) (model.Page[model.Lawyer], error) {
	opts, err := listOptions(q, lawyerSortable)
	if err != nil {
		return model.Page[model.Lawyer]{}, err
	}
	items, total, err := s.repos.Lawyers.List(ctx, opts)
	if err != nil {
		return model.Page[model.Lawyer]{}, fmt.Errorf("list lawyers: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

func (s *lawyerService) Update(ctx context.Context, id uint, in UpdateLawyerInput) (*model.Lawyer, error) {
	lawyer, err := s.repos.Lawyers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "lawyer", id)
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		lawyer.Email = email
	}
	if in.FirstName != nil {
		lawyer.FirstName = *in.FirstName
	}
	if in.SecondName != nil {
		lawyer.SecondName = *in.SecondName
	}
	if in.Phone != nil {
		lawyer.Phone = *in.Phone
	}
	if in.Speciality != nil {
		lawyer.Speciality = *in.Speciality
	}
	if in.Active != nil {
		lawyer.Active = *in.Active
	}
	if in.ConsultationFee != nil {
		if in.ConsultationFee.IsNegative() {
			return nil, apperrors.Validation("INVALID_FEE", "consultationFee cannot be negative")
		}
		lawyer.ConsultationFee = *in.ConsultationFee
	}

	if err := s.repos.Lawyers.Update(ctx, lawyer); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("EMAIL_TAKEN", fmt.Sprintf("a lawyer with email %s already exists", lawyer.Email))
		}
		return nil, fmt.Errorf("update lawyer: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return lawyer, nil
}

// Remove deletes a lawyer that owns no slots.
func (s *lawyerService) Remove(ctx context.Context, id uint) error {
	if _, err := s.repos.Lawyers.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "lawyer", id)
	}
	n, err := s.repos.Slots.CountByLawyer(ctx, id)
	if err != nil {
		return fmt.Errorf("count slots: %w", err)
	}
	if n > 0 {
		return apperrors.Conflict("LAWYER_HAS_SLOTS", fmt.Sprintf("lawyer %d still has %d slots", id, n))
	}
	if err := s.repos.Lawyers.Delete(ctx, id); err != nil {
		return notFoundOr(err, "lawyer", id)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
