package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/middleware"
	"legalbooking/internal/model"
	"legalbooking/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	FirstName      string `json:"firstName" validate:"required,max=100"`
	SecondName     string `json:"secondName" validate:"required,max=100"`
	DocumentNumber string `json:"documentNumber" validate:"omitempty,max=20"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,max=15"`
	Password       string `json:"password" validate:"required,min=6"`
	Role           string `json:"role" validate:"omitempty,oneof=client admin"`
	LawyerID       *uint  `json:"idLawyer" validate:"omitempty,gt=0"`
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	SecondName     *string `json:"secondName" validate:"omitempty,min=1,max=100"`
	DocumentNumber *string `json:"documentNumber" validate:"omitempty,max=20"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=15"`
	Password       *string `json:"password" validate:"omitempty,min=6"`
	Role           *string `json:"role" validate:"omitempty,oneof=client admin"`
	Active         *bool   `json:"active"`
	LawyerID       *uint   `json:"idLawyer" validate:"omitempty,gt=0"`
}

// Signup godoc
// @Summary Register a new client
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	// Admins are provisioned by the seeder, never through public signup.
	if req.Role == model.RoleAdmin {
		return fail(apperrors.ErrForbidden)
	}

	user, err := h.svc.Create(c.Request().Context(), service.SignupInput{
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		Role:           model.RoleClient,
		LawyerID:       req.LawyerID,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := authorizeOwner(c, id); err != nil {
		return err
	}
	user, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Description Clients see only themselves.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, firstName, email, creationDate)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.User]
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	q.UserID = callerScope(c)
	page, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Clients may only update themselves and cannot change role or active.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if !mayManageUser(c, id) || (!isAdmin(c) && (req.Role != nil || req.Active != nil)) {
		return fail(apperrors.ErrForbidden)
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UpdateUserInput{
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		Role:           req.Role,
		Active:         req.Active,
		LawyerID:       req.LawyerID,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if !mayManageUser(c, id) {
		return fail(apperrors.ErrForbidden)
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "user", id)
}

func isAdmin(c echo.Context) bool {
	claims, ok := middleware.Claims(c)
	return ok && claims.Role == model.RoleAdmin
}

// mayManageUser reports whether the caller is the user or an admin.
func mayManageUser(c echo.Context, id uint) bool {
	claims, ok := middleware.Claims(c)
	return ok && (claims.Role == model.RoleAdmin || claims.UserID == id)
}
