package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/middleware"
	"legalbooking/internal/model"
	"legalbooking/internal/service"
)

// MessageResponse is returned by endpoints that have no resource to show.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a service error into the HTTP error echo renders.
func fail(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bind decodes and validates the request into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: fmt.Sprintf("invalid %s", name),
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// listQuery reads pageNumber, pageSize, sortedBy and sortOrder.
func listQuery(c echo.Context) (service.ListQuery, error) {
	var q service.ListQuery
	err := echo.QueryParamsBinder(c).
		Int("pageNumber", &q.PageNumber).
		Int("pageSize", &q.PageSize).
		String("sortedBy", &q.SortedBy).
		String("sortOrder", &q.SortOrder).
		BindError()
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "pageNumber and pageSize must be integers",
			Code:  "INVALID_PAGINATION",
		})
	}
	return q, nil
}

func removed(c echo.Context, entity string, id uint) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s %d removed", entity, id)})
}

// callerScope is the user id owned resources are limited to, or zero for admins.
func callerScope(c echo.Context) uint {
	claims, ok := middleware.Claims(c)
	if !ok || claims.Role == model.RoleAdmin {
		return 0
	}
	return claims.UserID
}

// authorizeOwner fails with 403 unless the caller is ownerID or an admin.
func authorizeOwner(c echo.Context, ownerID uint) error {
	if !mayManageUser(c, ownerID) {
		return fail(apperrors.ErrForbidden)
	}
	return nil
}
