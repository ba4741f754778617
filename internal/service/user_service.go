package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"legalbooking/internal/cache"
	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// SignupInput is the payload for registering a user.
type SignupInput struct {
	FirstName      string
	SecondName     string
	DocumentNumber string
	Email          string
	Phone          string
	Password       string
	Role           string
	LawyerID       *uint
}

// UpdateUserInput lists the updatable user fields.
type UpdateUserInput struct {
	FirstName      *string
	SecondName     *string
	DocumentNumber *string
	Email          *string
	Phone          *string
	Password       *string
	Role           *string
	Active         *bool
	LawyerID       *uint
}

// UserService exposes domain operations.
type UserService interface {
	Create(ctx context.Context, in SignupInput) (*model.User, error)
	FindOne(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.User], error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	Remove(ctx context.Context, id uint) error
}

type userService struct {
	repos      repository.Repositories
	cache      *cache.Client
	bcryptCost int
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(repos repository.Repositories, cache *cache.Client, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{repos: repos, cache: cache, bcryptCost: bcryptCost}
}

var userSortable = map[string]string{
	"id":           "id",
	"email":        "email",
	"firstName":    "first_name",
	"creationDate": "creation_date",
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func validRole(role string) bool {
	return role == model.RoleClient || role == model.RoleAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) ensureUnique(ctx context.Context, email, documentNumber string, exceptID uint) error {
	if email != "" {
		existing, err := s.repos.Users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != exceptID:
			return apperrors.Conflict("EMAIL_TAKEN", fmt.Sprintf("a user with email %s already exists", email))
		case err != nil && !isNotFound(err):
			return fmt.Errorf("check user email: %w", err)
		}
	}
	if documentNumber != "" {
		existing, err := s.repos.Users.FindByDocumentNumber(ctx, documentNumber)
		switch {
		case err == nil && existing.ID != exceptID:
			return apperrors.Conflict("DOCUMENT_TAKEN", fmt.Sprintf("a user with document number %s already exists", documentNumber))
		case err != nil && !isNotFound(err):
			return fmt.Errorf("check user document: %w", err)
		}
	}
	return nil
}

func (s *userService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Create registers a user with a bcrypt-hashed password.
func (s *userService) Create(ctx context.Context, in SignupInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleClient
	}
	if !validRole(role) {
		return nil, apperrors.Validation("INVALID_ROLE", fmt.Sprintf("unknown role %q", role))
	}
	email := normalizeEmail(in.Email)
	doc := strings.TrimSpace(in.DocumentNumber)
	if err := s.ensureUnique(ctx, email, doc, 0); err != nil {
		return nil, err
	}
	if in.LawyerID != nil {
		if _, err := s.repos.Lawyers.FindByID(ctx, *in.LawyerID); err != nil {
			return nil, notFoundOr(err, "lawyer", *in.LawyerID)
		}
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName:    in.FirstName,
		SecondName:   in.SecondName,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hashed,
		Role:         role,
		Active:       true,
		LawyerID:     in.LawyerID,
	}
	if doc != "" {
		user.DocumentNumber = &doc
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("USER_EXISTS", "a user with this email or document number already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) FindOne(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) List(ctx context.Context, q ListQuery) (model.Page[model.User], error) {
	opts, err := listOptions(q, userSortable)
	if err != nil {
		return model.Page[model.User]{}, err
	}
	items, total, err := s.repos.Users.List(ctx, opts)
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("list users: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

func (s *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}

	var email, doc string
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	if in.DocumentNumber != nil {
		doc = strings.TrimSpace(*in.DocumentNumber)
	}
	if err := s.ensureUnique(ctx, email, doc, id); err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = email
	}
	if in.DocumentNumber != nil {
		if doc == "" {
			user.DocumentNumber = nil
		} else {
			user.DocumentNumber = &doc
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.SecondName != nil {
		user.SecondName = *in.SecondName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, apperrors.Validation("INVALID_ROLE", fmt.Sprintf("unknown role %q", *in.Role))
		}
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.LawyerID != nil {
		if _, err := s.repos.Lawyers.FindByID(ctx, *in.LawyerID); err != nil {
			return nil, notFoundOr(err, "lawyer", *in.LawyerID)
		}
		user.LawyerID = in.LawyerID
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("USER_EXISTS", "a user with this email or document number already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// Remove deletes a user without reservations or conversations.
func (s *userService) Remove(ctx context.Context, id uint) error {
	if _, err := s.repos.Users.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "user", id)
	}
	n, err := s.repos.Reservations.CountByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return apperrors.Conflict("USER_HAS_RESERVATIONS", fmt.Sprintf("user %d still has %d reservations", id, n))
	}
	n, err = s.repos.Conversations.CountByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("count conversations: %w", err)
	}
	if n > 0 {
		return apperrors.Conflict("USER_HAS_CONVERSATIONS", fmt.Sprintf("user %d still has %d conversations", id, n))
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Conflict("USER_IN_USE", fmt.Sprintf("user %d is still referenced", id))
		}
		return notFoundOr(err, "user", id)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
