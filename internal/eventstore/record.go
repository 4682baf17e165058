package eventstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/collection"
)

// RecordBuild appends the event sequence for a build that produced a
// manifest: BuildStarted, one DocumentRejected per failure, BuildCompleted.
func RecordBuild(ctx context.Context, store Store, contentRoot string, m *collection.Manifest, started time.Time, d time.Duration) error {
	events := make([]*BaseEvent, 0, len(m.Failures)+2)

	ev, err := NewBuildStarted(m.BuildID, started, BuildStartedPayload{ContentRoot: contentRoot})
	if err != nil {
		return err
	}
	events = append(events, ev)

	for _, f := range m.Failures {
		ev, err := NewDocumentRejected(m.BuildID, m.GeneratedAt, DocumentRejectedPayload(f))
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	completed := BuildCompletedPayload{
		Status:      StatusSucceeded,
		Collections: make(map[string]int, len(m.Collections)),
		Rejected:    len(m.Failures),
		DurationMS:  d.Milliseconds(),
	}
	if len(m.Failures) > 0 {
		completed.Status = StatusPartial
	}
	for name, c := range m.Collections {
		completed.Collections[name] = c.Count
	}
	if m.Revision != nil {
		completed.Commit = m.Revision.Commit
	}
	ev, err = NewBuildCompleted(m.BuildID, started.Add(d), completed)
	if err != nil {
		return err
	}
	events = append(events, ev)

	for _, e := range events {
		if err := store.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// RecordFailure appends BuildStarted and BuildFailed for a build that
// aborted before producing a manifest.
func RecordFailure(ctx context.Context, store Store, buildID, contentRoot string, started time.Time, d time.Duration, cause error) error {
	start, err := NewBuildStarted(buildID, started, BuildStartedPayload{ContentRoot: contentRoot})
	if err != nil {
		return err
	}
	failed, err := NewBuildFailed(buildID, started.Add(d), BuildFailedPayload{Error: cause.Error(), DurationMS: d.Milliseconds()})
	if err != nil {
		return err
	}
	if err := store.Append(ctx, start); err != nil {
		return err
	}
	return store.Append(ctx, failed)
}
