package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
)

// notFoundOr maps a missing record to a not-found domain error and wraps anything else.
func notFoundOr(err error, entity string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, key)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// ListQuery carries the raw paging and sorting parameters of a list request.
type ListQuery struct {
	PageNumber int
	PageSize   int
	SortedBy   string
	SortOrder  string
	// UserID scopes owned resources to one user. Zero lists everything.
	UserID uint
}

// listOptions validates q against the sortable columns, keyed by their JSON names.
func listOptions(q ListQuery, sortable map[string]string) (model.ListOptions, error) {
	opts := model.ListOptions{
		Page:   model.PageRequest{Number: q.PageNumber, Size: q.PageSize}.Normalize(),
		UserID: q.UserID,
	}
	if q.SortedBy != "" {
		col, ok := sortable[q.SortedBy]
		if !ok {
			return opts, apperrors.Validation("INVALID_SORT", fmt.Sprintf("cannot sort by %q", q.SortedBy))
		}
		opts.Sort.Column = col
	}
	switch strings.ToUpper(q.SortOrder) {
	case "", "ASC":
	case "DESC":
		opts.Sort.Desc = true
	default:
		return opts, apperrors.Validation("INVALID_SORT_ORDER", "sortOrder must be ASC or DESC")
	}
	if opts.Sort.Desc && opts.Sort.Column == "" {
		opts.Sort.Column = "id"
	}
	return opts, nil
}
