package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// Event types.
const (
	TypeBuildStarted     = "BuildStarted"
	TypeDocumentRejected = "DocumentRejected"
	TypeBuildCompleted   = "BuildCompleted"
	TypeBuildFailed      = "BuildFailed"
)

// Build outcomes carried by BuildCompleted.
const (
	StatusRunning   = "running"
	StatusSucceeded = "success"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Event is one recorded fact about a build.
type Event interface {
	ID() int64
	BuildID() string
	Type() string
	Timestamp() time.Time
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent is the stored form of every event.
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

// BuildStartedPayload describes the inputs of a build.
type BuildStartedPayload struct {
	ContentRoot string `json:"content_root"`
}

// DocumentRejectedPayload records one failed document.
type DocumentRejectedPayload struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Category   string `json:"category,omitempty"`
	Error      string `json:"error"`
}

// BuildCompletedPayload summarizes a build that produced output.
type BuildCompletedPayload struct {
	Status      string         `json:"status"`
	Collections map[string]int `json:"collections"`
	Rejected    int            `json:"rejected"`
	DurationMS  int64          `json:"duration_ms"`
	Commit      string         `json:"commit,omitempty"`
}

// BuildFailedPayload records a build that could not complete.
type BuildFailedPayload struct {
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

func newEvent(buildID, eventType string, at time.Time, payload any) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEventStore, "failed to marshal event payload").
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: at,
		EventPayload:   data,
	}, nil
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, at time.Time, p BuildStartedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildStarted, at, p)
}

// NewDocumentRejected creates a DocumentRejected event.
func NewDocumentRejected(buildID string, at time.Time, p DocumentRejectedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeDocumentRejected, at, p)
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, at time.Time, p BuildCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildCompleted, at, p)
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID string, at time.Time, p BuildFailedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildFailed, at, p)
}
