package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{10}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := NewTrackingCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 95)
}

func TestUniqueTrackingCode(t *testing.T) {
	t.Run("skips taken codes", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		reservations.On("ExistsTrackingCode", mock.Anything, "aaaaaaaaaa").Return(true, nil).Once()
		reservations.On("ExistsTrackingCode", mock.Anything, "bbbbbbbbbb").Return(false, nil).Once()

		codes := []string{"aaaaaaaaaa", "bbbbbbbbbb"}
		gen := func() (string, error) {
			c := codes[0]
			codes = codes[1:]
			return c, nil
		}

		code, err := uniqueTrackingCode(context.Background(), gen, reservations)
		require.NoError(t, err)
		assert.Equal(t, "bbbbbbbbbb", code)
		reservations.AssertExpectations(t)
	})

	t.Run("generator failure", func(t *testing.T) {
		gen := func() (string, error) { return "", errors.New("entropy exhausted") }
		_, err := uniqueTrackingCode(context.Background(), gen, new(MockReservationRepository))
		assert.EqualError(t, err, "entropy exhausted")
	})
}
