package domain

import (
	"fmt"
	"strings"
)

type Customer struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DriverLicense *string `json:"driver_license,omitempty"`
	BirthDate     *string `json:"birth_date,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
}

// NewCustomer builds a customer from raw form values. Blank optional fields
// become nil; birth date is kept as free text.
func NewCustomer(fields map[string]string) *Customer {
	return &Customer{
		Name:          text(fields["name"]),
		DriverLicense: optional(fields["driver_license"]),
		BirthDate:     optional(fields["birth_date"]),
		Address:       optional(fields["address"]),
		Phone:         optional(fields["phone"]),
	}
}

func optional(s string) *string {
	s = text(s)
	if s == "" {
		return nil
	}
	return &s
}

// text maps whitespace-only input to "" and keeps anything else verbatim.
func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// CheckText rejects values Postgres cannot store in a text column.
func CheckText(fields map[string]string) error {
	for k, v := range fields {
		if strings.ContainsRune(v, 0) {
			return fmt.Errorf("%w: %s contains a NUL byte", ErrInvalidInput, k)
		}
	}
	return nil
}
