package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"legalbooking/internal/service"
)

// LawyerHandler handles lawyer endpoints.
type LawyerHandler struct {
	svc service.LawyerService
}

// NewLawyerHandler creates a new lawyer handler.
func NewLawyerHandler(svc service.LawyerService) *LawyerHandler {
	return &LawyerHandler{svc: svc}
}

// LawyerRequest represents a lawyer creation request.
type LawyerRequest struct {
	FirstName       string          `json:"firstName" validate:"required,max=100"`
	SecondName      string          `json:"secondName" validate:"required,max=100"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone" validate:"omitempty,max=15"`
	Speciality      string          `json:"speciality" validate:"omitempty,max=100"`
	Active          *bool           `json:"active"`
	ConsultationFee decimal.Decimal `json:"consultationFee" swaggertype:"string"`
}

// UpdateLawyerRequest represents a partial lawyer update.
type UpdateLawyerRequest struct {
	FirstName       *string          `json:"firstName" validate:"omitempty,min=1,max=100"`
	SecondName      *string          `json:"secondName" validate:"omitempty,min=1,max=100"`
	Email           *string          `json:"email" validate:"omitempty,email"`
	Phone           *string          `json:"phone" validate:"omitempty,max=15"`
	Speciality      *string          `json:"speciality" validate:"omitempty,max=100"`
	Active          *bool            `json:"active"`
	ConsultationFee *decimal.Decimal `json:"consultationFee" swaggertype:"string"`
}

// CreateLawyer godoc
// @Summary Create a lawyer
// @Tags lawyers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LawyerRequest true "Lawyer data"
// @Success 201 {object} model.Lawyer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /lawyers [post]
func (h *LawyerHandler) CreateLawyer(c echo.Context) error {
	var req LawyerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lawyer, err := h.svc.Create(c.Request().Context(), service.LawyerInput{
		FirstName:       req.FirstName,
		SecondName:      req.SecondName,
		Email:           req.Email,
		Phone:           req.Phone,
		Speciality:      req.Speciality,
		Active:          req.Active,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, lawyer)
}

// GetLawyer godoc
// @Summary Get lawyer by id
// @Tags lawyers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lawyer ID"
// @Success 200 {object} model.Lawyer
// @Failure 404 {object} errors.ErrorResponse
// @Router /lawyers/{id} [get]
func (h *LawyerHandler) GetLawyer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	lawyer, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, lawyer)
}

// ListLawyers godoc
// @Summary List lawyers
// @Tags lawyers
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, firstName, speciality, creationDate)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.Lawyer]
// @Router /lawyers [get]
func (h *LawyerHandler) ListLawyers(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	page, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateLawyer godoc
// @Summary Update a lawyer
// @Tags lawyers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lawyer ID"
// @Param request body UpdateLawyerRequest true "Fields to change"
// @Success 200 {object} model.Lawyer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lawyers/{id} [patch]
func (h *LawyerHandler) UpdateLawyer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateLawyerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lawyer, err := h.svc.Update(c.Request().Context(), id, service.UpdateLawyerInput{
		FirstName:       req.FirstName,
		SecondName:      req.SecondName,
		Email:           req.Email,
		Phone:           req.Phone,
		Speciality:      req.Speciality,
		Active:          req.Active,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, lawyer)
}

// DeleteLawyer godoc
// @Summary Delete a lawyer without slots
// @Tags lawyers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lawyer ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lawyers/{id} [delete]
func (h *LawyerHandler) DeleteLawyer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "lawyer", id)
}
