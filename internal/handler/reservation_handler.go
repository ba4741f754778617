package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/middleware"
	"legalbooking/internal/model"
	"legalbooking/internal/service"
)

// ReservationHandler handles reservation endpoints.
type ReservationHandler struct {
	svc service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// CreateReservationRequest represents a booking request. UserID defaults to the caller.
type CreateReservationRequest struct {
	UserID uint   `json:"userId"`
	SlotID uint   `json:"slotId" validate:"required,gt=0"`
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// UpdateReservationRequest represents a status change.
type UpdateReservationRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// CreateReservation godoc
// @Summary Book a slot
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReservationRequest true "Reservation data"
// @Success 201 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req CreateReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	claims, _ := middleware.Claims(c)
	if req.UserID == 0 && claims != nil {
		req.UserID = claims.UserID
	}
	if !mayManageUser(c, req.UserID) {
		return fail(apperrors.ErrForbidden)
	}

	reservation, err := h.svc.Create(c.Request().Context(), service.CreateReservationInput{
		UserID: req.UserID,
		SlotID: req.SlotID,
		Status: model.ReservationStatus(req.Status),
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

// GetReservation godoc
// @Summary Get reservation by id
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} model.Reservation
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	reservation, err := h.owned(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservation)
}

// owned loads the reservation and checks the caller may act on it.
func (h *ReservationHandler) owned(c echo.Context, id uint) (*model.Reservation, error) {
	reservation, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return nil, fail(err)
	}
	if err := authorizeOwner(c, reservation.UserID); err != nil {
		return nil, err
	}
	return reservation, nil
}

// TrackReservation godoc
// @Summary Look a reservation up by tracking code
// @Tags reservations
// @Produce json
// @Param trackingCode path string true "Tracking code"
// @Success 200 {object} model.Reservation
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/track/{trackingCode} [get]
func (h *ReservationHandler) TrackReservation(c echo.Context) error {
	reservation, err := h.svc.FindByTrackingCode(c.Request().Context(), c.Param("trackingCode"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// ListReservations godoc
// @Summary List reservations
// @Description Clients see only their own reservations.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, status, creationDate)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.Reservation]
// @Failure 400 {object} errors.ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c echo.Context) error {
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

// UpdateReservation godoc
// @Summary Change a reservation status
// @Description Cancelling frees the slot. A cancelled reservation cannot be reopened.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param request body UpdateReservationRequest true "New status"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.owned(c, id); err != nil {
		return err
	}
	var in service.UpdateReservationInput
	if req.Status != nil {
		status := model.ReservationStatus(*req.Status)
		in.Status = &status
	}
	reservation, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// DeleteReservation godoc
// @Summary Delete a reservation and free its slot
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.owned(c, id); err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "reservation", id)
}
