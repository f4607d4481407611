package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseFloatOr parses s as a float64 and returns def when s is empty,
// malformed or not finite ("inf", "nan", "1e400"). Monetary inputs are never
// rejected, only zeroed.
func ParseFloatOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return def
	}
	return v
}

// DeriveNewOrder builds a persistable order from raw entry fields, assigning a
// fresh tracking number and the initial status.
func DeriveNewOrder(fields OrderFields, gen TrackingGenerator) (*Order, error) {
	o, err := deriveCommon(fields)
	if err != nil {
		return nil, err
	}
	o.TrackingNumber = gen.Next()
	o.Status = StatusNew
	return o, nil
}

// DeriveOrderEdit builds the replacement row for an existing order. The
// tracking number is carried over untouched.
func DeriveOrderEdit(existingTracking string, fields OrderFields) (*Order, error) {
	o, err := deriveCommon(fields)
	if err != nil {
		return nil, err
	}
	o.TrackingNumber = existingTracking
	o.Status = fields.Get("status")
	if o.Status == "" {
		o.Status = StatusNew
	}
	return o, nil
}

func deriveCommon(fields OrderFields) (*Order, error) {
	if err := CheckText(fields); err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(fields["sender_id"])
	if raw == "" {
		return nil, fmt.Errorf("%w: sender_id is required", ErrInvalidInput)
	}
	senderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: sender_id %q is not an integer", ErrInvalidInput, raw)
	}

	o := &Order{
		SenderID:        senderID,
		ReceiverName:    fields.Get("receiver_name"),
		ReceiverAddress: fields.Get("receiver_address"),
		ReceiverPhone:   fields.Get("receiver_phone"),
		ExchangeRate:    ParseFloatOr(fields["exchange_rate"], 0),
		Amount:          ParseFloatOr(fields["amount"], 0),
		Fee:             ParseFloatOr(fields["fee"], 0),
		SendDate:        fields.Get("send_date"),
	}
	o.Total = o.Amount + o.Fee
	if math.IsInf(o.Total, 0) {
		return nil, fmt.Errorf("%w: amount plus fee overflows", ErrInvalidInput)
	}
	return o, nil
}
