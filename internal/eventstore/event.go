package eventstore

import (
	"encoding/json"
	"time"
)

// Event is one recorded fact about a build. Payloads are JSON.
type Event interface {
	ID() int64
	BuildID() string
	Type() string
	Timestamp() time.Time
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent is the stored form of an Event. EventID is assigned by the store.
type BaseEvent struct {
	EventID        int64
	EventBuildID   string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) BuildID() string             { return e.EventBuildID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }

// decodePayload unmarshals the payload of ev into T. ok is false for
// payloads written by an incompatible version.
func decodePayload[T any](ev Event) (T, bool) {
	var pl T
	err := json.Unmarshal(ev.Payload(), &pl)
	return pl, err == nil
}
