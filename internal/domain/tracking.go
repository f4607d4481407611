package domain

import (
	"github.com/google/uuid"
	"strings"
)

// TrackingGenerator hands out tracking numbers for new orders.
type TrackingGenerator interface {
	Next() string
}

// UUIDTrackingGenerator uses the first segment of a random UUID, uppercased:
// eight hex characters.
type UUIDTrackingGenerator struct{}

func (UUIDTrackingGenerator) Next() string {
	id := uuid.NewString()
	head, _, _ := strings.Cut(id, "-")
	return strings.ToUpper(head)
}
