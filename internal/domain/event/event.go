// Package event defines the domain events emitted when transactions and their
// attachments change.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys
const (
	KeyFromStatus   = "from_status"
	KeyToStatus     = "to_status"
	KeyTrigger      = "trigger"
	KeyRemark       = "remark"
	KeyAttachmentID = "attachment_id"
	KeyFileName     = "file_name"
	KeySize         = "size"
	KeyStatus       = "status"
	KeyWaitingSince = "waiting_since"
)

// Event is something that happened to a transaction
type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	DotsNumber string                 `json:"dots_number"`
	Actor      string                 `json:"actor"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// New creates an event with a fresh ID. payload may be nil.
func New(eventType Type, dotsNumber, actor string, occurredAt time.Time, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		DotsNumber: dotsNumber,
		Actor:      actor,
		Payload:    payload,
		OccurredAt: occurredAt,
	}
}

// WithPayload returns a copy of the event with key set; the receiver is not modified
func (e *Event) WithPayload(key string, value interface{}) *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	cp := *e
	cp.Payload = payload
	return &cp
}

// PayloadString retrieves a string value from the payload
func (e *Event) PayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// PayloadInt retrieves an integer value from the payload. JSON-decoded numbers are accepted.
func (e *Event) PayloadInt(key string) int64 {
	switch v := e.Payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// KeyValues flattens the event into alternating key/value pairs for structured logging
func (e *Event) KeyValues() []interface{} {
	kv := []interface{}{
		"event_id", e.ID,
		"event_type", e.Type.String(),
		"dots_number", e.DotsNumber,
		"actor", e.Actor,
	}
	for _, key := range []string{KeyFromStatus, KeyToStatus, KeyTrigger, KeyRemark, KeyAttachmentID, KeyFileName, KeySize, KeyStatus, KeyWaitingSince} {
		if v, ok := e.Payload[key]; ok {
			kv = append(kv, key, v)
		}
	}
	return kv
}
