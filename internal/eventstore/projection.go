package eventstore

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// BuildSummary is the read model of one build.
type BuildSummary struct {
	BuildID      string                    `json:"build_id"`
	Status       string                    `json:"status"`
	StartedAt    time.Time                 `json:"started_at"`
	CompletedAt  *time.Time                `json:"completed_at,omitempty"`
	Duration     time.Duration             `json:"duration"`
	Collections  map[string]int            `json:"collections,omitempty"`
	Rejected     []DocumentRejectedPayload `json:"rejected,omitempty"`
	Commit       string                    `json:"commit,omitempty"`
	ContentRoot  string                    `json:"content_root,omitempty"`
	ErrorMessage string                    `json:"error_message,omitempty"`
}

// BuildHistoryProjection folds stored events into per-build summaries.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	history []*BuildSummary // finished builds, newest first
	maxSize int
}

// NewBuildHistoryProjection creates a projection over store keeping at most
// maxHistorySize finished builds (100 when <= 0).
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	p.history = nil
	for _, event := range events {
		p.applyEventLocked(event)
	}
	slices.SortStableFunc(p.history, func(a, b *BuildSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	p.trimLocked()
	return nil
}

// Apply folds a single event into the projection.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
	p.trimLocked()
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{BuildID: buildID, Status: StatusRunning, StartedAt: event.Timestamp()}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var payload BuildStartedPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ContentRoot = payload.ContentRoot
		}

	case TypeDocumentRejected:
		var payload DocumentRejectedPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Rejected = append(summary.Rejected, payload)
		}

	case TypeBuildCompleted:
		at := event.Timestamp()
		summary.CompletedAt = &at
		summary.Status = StatusSucceeded
		var payload BuildCompletedPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			if payload.Status != "" {
				summary.Status = payload.Status
			}
			summary.Collections = payload.Collections
			summary.Duration = time.Duration(payload.DurationMS) * time.Millisecond
			summary.Commit = payload.Commit
		}
		p.addToHistoryLocked(summary)

	case TypeBuildFailed:
		at := event.Timestamp()
		summary.CompletedAt = &at
		summary.Status = StatusFailed
		var payload BuildFailedPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorMessage = payload.Error
			summary.Duration = time.Duration(payload.DurationMS) * time.Millisecond
		}
		p.addToHistoryLocked(summary)
	}
}

func (p *BuildHistoryProjection) addToHistoryLocked(summary *BuildSummary) {
	if slices.ContainsFunc(p.history, func(h *BuildSummary) bool { return h.BuildID == summary.BuildID }) {
		return
	}
	p.history = append([]*BuildSummary{summary}, p.history...)
}

// trimLocked bounds history and drops finished builds that fell out of it.
func (p *BuildHistoryProjection) trimLocked() {
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	keep := make(map[string]struct{}, len(p.history))
	for _, h := range p.history {
		keep[h.BuildID] = struct{}{}
	}
	for id, summary := range p.builds {
		if summary.Status == StatusRunning {
			continue
		}
		if _, ok := keep[id]; !ok {
			delete(p.builds, id)
		}
	}
}

// History returns finished builds, newest first.
func (p *BuildHistoryProjection) History() []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]BuildSummary, len(p.history))
	for i, h := range p.history {
		out[i] = *h
	}
	return out
}

// Build returns the summary for buildID.
func (p *BuildHistoryProjection) Build(buildID string) (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, ok := p.builds[buildID]
	if !ok {
		return BuildSummary{}, false
	}
	return *summary, true
}

// LastCompleted returns the most recent finished build.
func (p *BuildHistoryProjection) LastCompleted() (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.history) == 0 {
		return BuildSummary{}, false
	}
	return *p.history[0], true
}
