package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"legalbooking/internal/repository"
)

const (
	trackingCodeBytes    = 5 // 10 hex characters
	trackingCodeAttempts = 5
)

// CodeGenerator produces candidate tracking codes.
type CodeGenerator func() (string, error)

// NewTrackingCode returns 10 random lowercase hex characters.
func NewTrackingCode() (string, error) {
	b := make([]byte, trackingCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// uniqueTrackingCode draws codes until one is unused.
func uniqueTrackingCode(ctx context.Context, gen CodeGenerator, reservations repository.ReservationRepository) (string, error) {
	for i := 0; i < trackingCodeAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		exists, err := reservations.ExistsTrackingCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check tracking code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unique tracking code after %d attempts", trackingCodeAttempts)
}
