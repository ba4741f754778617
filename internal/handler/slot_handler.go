package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/service"
)

// SlotHandler handles slot endpoints.
type SlotHandler struct {
	svc service.SlotService
}

// NewSlotHandler creates a new slot handler.
func NewSlotHandler(svc service.SlotService) *SlotHandler {
	return &SlotHandler{svc: svc}
}

// SlotRequest represents one slot to create. Dates are RFC 3339.
type SlotRequest struct {
	LawyerID  uint      `json:"lawyerId" validate:"required,gt=0"`
	DateStart time.Time `json:"dateStart" validate:"required"`
	DateEnd   time.Time `json:"dateEnd" validate:"required"`
}

func (r SlotRequest) input() service.SlotInput {
	return service.SlotInput{LawyerID: r.LawyerID, DateStart: r.DateStart, DateEnd: r.DateEnd}
}

// CreateMultipleSlotsRequest represents a batch of slots created together.
type CreateMultipleSlotsRequest struct {
	Slots []SlotRequest `json:"slots" validate:"required,min=1,max=500,dive"`
}

// UpdateSlotRequest represents a partial slot update.
type UpdateSlotRequest struct {
	LawyerID  *uint      `json:"lawyerId" validate:"omitempty,gt=0"`
	DateStart *time.Time `json:"dateStart"`
	DateEnd   *time.Time `json:"dateEnd"`
}

// CreateSlot godoc
// @Summary Create a slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SlotRequest true "Slot data"
// @Success 201 {object} model.Slot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c echo.Context) error {
	var req SlotRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	slot, err := h.svc.Create(c.Request().Context(), req.input())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// CreateMultipleSlots godoc
// @Summary Create several slots at once
// @Description Either every slot is created or none is.
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMultipleSlotsRequest true "Slots"
// @Success 201 {array} model.Slot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/create-multiple [post]
func (h *SlotHandler) CreateMultipleSlots(c echo.Context) error {
	var req CreateMultipleSlotsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in := make([]service.SlotInput, len(req.Slots))
	for i, s := range req.Slots {
		in[i] = s.input()
	}
	slots, err := h.svc.CreateMultiple(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, slots)
}

// GetSlot godoc
// @Summary Get slot by id
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} model.Slot
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	slot, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, slot)
}

// ListSlots godoc
// @Summary List slots
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, dateStart, dateEnd, lawyerId, available)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.Slot]
// @Failure 400 {object} errors.ErrorResponse
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c echo.Context) error {
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

// SearchSlots godoc
// @Summary Search slots
// @Description Every given filter must match. Without filters all slots are returned.
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param lawyerId query int false "Lawyer ID"
// @Param lawyerSpeciality query string false "Lawyer speciality"
// @Param available query bool false "Availability"
// @Param startDate query string false "Earliest start (RFC 3339)"
// @Param endDate query string false "Latest end (RFC 3339)"
// @Success 200 {array} model.Slot
// @Failure 400 {object} errors.ErrorResponse
// @Router /slots/search [get]
func (h *SlotHandler) SearchSlots(c echo.Context) error {
	filter, err := slotFilter(c)
	if err != nil {
		return err
	}
	slots, err := h.svc.Search(c.Request().Context(), filter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, slots)
}

// GroupSlotsByDate godoc
// @Summary Group slots by interval
// @Description Lists, per exact start and end, the lawyers offering that interval.
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.SlotGroup
// @Router /slots/group-by-date [get]
func (h *SlotHandler) GroupSlotsByDate(c echo.Context) error {
	groups, err := h.svc.GroupByDate(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// UpdateSlot godoc
// @Summary Update a slot
// @Description Availability follows reservations and cannot be set here.
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Param request body UpdateSlotRequest true "Fields to change"
// @Success 200 {object} model.Slot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/{id} [patch]
func (h *SlotHandler) UpdateSlot(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateSlotRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	slot, err := h.svc.Update(c.Request().Context(), id, service.UpdateSlotInput{
		LawyerID:  req.LawyerID,
		DateStart: req.DateStart,
		DateEnd:   req.DateEnd,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, slot)
}

// DeleteSlot godoc
// @Summary Delete an unreserved slot
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/{id} [delete]
func (h *SlotHandler) DeleteSlot(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "slot", id)
}

func invalidFilter(name string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: fmt.Sprintf("invalid %s", name),
		Code:  "INVALID_FILTER",
	})
}

// slotFilter reads the optional search filters from the query string.
func slotFilter(c echo.Context) (model.SlotFilter, error) {
	var f model.SlotFilter
	if v := c.QueryParam("lawyerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, invalidFilter("lawyerId")
		}
		lawyerID := uint(id)
		f.LawyerID = &lawyerID
	}
	if v := c.QueryParam("lawyerSpeciality"); v != "" {
		f.LawyerSpeciality = &v
	}
	if v := c.QueryParam("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return f, invalidFilter("available")
		}
		f.Available = &available
	}
	for name, dst := range map[string]**time.Time{"startDate": &f.StartDate, "endDate": &f.EndDate} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, invalidFilter(name)
		}
		*dst = &t
	}
	return f, nil
}
