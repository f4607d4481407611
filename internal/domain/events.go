package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        int64     `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	Order          *Order    `json:"order,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// DecodeFields reads a flat JSON object into raw order fields. Numbers keep
// their literal text; null values are dropped.
func DecodeFields(data []byte) (OrderFields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	fields := make(OrderFields, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}
