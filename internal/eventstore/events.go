package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeStageCompleted = "StageCompleted"
	TypeBuildCompleted = "BuildCompleted"
	TypeBuildFailed    = "BuildFailed"
)

// BuildStartedPayload is recorded when a build begins.
type BuildStartedPayload struct {
	ConfigPath string `json:"config_path,omitempty"`
	Revision   string `json:"revision,omitempty"`
	Trigger    string `json:"trigger,omitempty"` // "cli" or "preview"
}

// StageCompletedPayload is recorded after each stage, whatever its result.
type StageCompletedPayload struct {
	Stage      string  `json:"stage"`
	Result     string  `json:"result"`
	DurationMS float64 `json:"duration_ms"`
}

// BuildCompletedPayload is recorded when a build finishes without a fatal error.
type BuildCompletedPayload struct {
	Outcome     string  `json:"outcome"`
	Revision    string  `json:"revision,omitempty"`
	Documents   int     `json:"documents"`
	Routes      int     `json:"routes"`
	BrokenLinks int     `json:"broken_links"`
	DurationMS  float64 `json:"duration_ms"`
}

// BuildFailedPayload is recorded when a build aborts.
type BuildFailedPayload struct {
	Stage      string  `json:"stage"`
	Error      string  `json:"error"`
	Canceled   bool    `json:"canceled,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

func newEvent(buildID, eventType string, payload any) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "failed to marshal event payload").
			WithContext("build_id", buildID).
			WithContext("type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, p BuildStartedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildStarted, p)
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(buildID string, p StageCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeStageCompleted, p)
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, p BuildCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildCompleted, p)
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID string, p BuildFailedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildFailed, p)
}
