// Package notify announces finished builds to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/collectionbuilder/internal/collection"
	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "collectionbuilder.build.completed"

// Publisher announces a completed build.
type Publisher interface {
	Publish(ctx context.Context, m *collection.Manifest) error
	Close() error
}

// Noop discards announcements.
type Noop struct{}

func (Noop) Publish(context.Context, *collection.Manifest) error { return nil }
func (Noop) Close() error                                        { return nil }

// BuildCompleted is the message body published for every build.
type BuildCompleted struct {
	BuildID     string         `json:"buildId"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Collections map[string]int `json:"collections"`
	Rejected    int            `json:"rejected"`
	Commit      string         `json:"commit,omitempty"`
	Output      string         `json:"output,omitempty"`
}

// NewBuildCompleted derives the message from a manifest.
func NewBuildCompleted(m *collection.Manifest, output string) BuildCompleted {
	msg := BuildCompleted{
		BuildID:     m.BuildID,
		GeneratedAt: m.GeneratedAt,
		Collections: make(map[string]int, len(m.Collections)),
		Rejected:    len(m.Failures),
		Output:      output,
	}
	for name, c := range m.Collections {
		msg.Collections[name] = c.Count
	}
	if m.Revision != nil {
		msg.Commit = m.Revision.Commit
	}
	return msg
}

// NATSPublisher publishes BuildCompleted messages on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	output  string
	logger  *slog.Logger
}

// NATSOptions configures a NATSPublisher.
type NATSOptions struct {
	URL     string
	Subject string
	// Output is reported in messages so consumers know where to read from.
	Output  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewNATSPublisher connects to the server at opts.URL.
func NewNATSPublisher(opts NATSOptions) (*NATSPublisher, error) {
	if opts.Subject == "" {
		opts.Subject = DefaultSubject
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	conn, err := nats.Connect(opts.URL,
		nats.Name("collectionbuilder"),
		nats.Timeout(opts.Timeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to connect to NATS").
			WithContext("url", opts.URL).
			Build()
	}

	opts.Logger.Info("NATS publisher connected", slog.String("url", opts.URL), slog.String("subject", opts.Subject))
	return &NATSPublisher{conn: conn, subject: opts.Subject, output: opts.Output, logger: opts.Logger}, nil
}

// Publish sends the build announcement and waits for the server to
// acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, m *collection.Manifest) error {
	data, err := json.Marshal(NewBuildCompleted(m, p.output))
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build announcement").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to publish build announcement").
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to flush build announcement").
			WithContext("subject", p.subject).
			Build()
	}
	p.logger.Debug("Published build announcement", logfields.BuildID(m.BuildID), slog.String("subject", p.subject))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
