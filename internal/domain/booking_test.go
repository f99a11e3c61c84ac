package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/homeservice/internal/domain"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    domain.BookingStatus
		to      domain.BookingStatus
		allowed bool
	}{
		{domain.BookingStatusPending, domain.BookingStatusConfirmed, true},
		{domain.BookingStatusPending, domain.BookingStatusCancelled, true},
		{domain.BookingStatusPending, domain.BookingStatusCompleted, false},
		{domain.BookingStatusConfirmed, domain.BookingStatusCompleted, true},
		{domain.BookingStatusConfirmed, domain.BookingStatusCancelled, false},
		{domain.BookingStatusConfirmed, domain.BookingStatusPending, false},
		{domain.BookingStatusCompleted, domain.BookingStatusConfirmed, false},
		{domain.BookingStatusCancelled, domain.BookingStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, domain.CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
