package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/collectionbuilder/internal/authors"
	"git.home.luguber.info/inful/collectionbuilder/internal/collection"
	"git.home.luguber.info/inful/collectionbuilder/internal/config"
	"git.home.luguber.info/inful/collectionbuilder/internal/eventstore"
	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/git"
	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
	"git.home.luguber.info/inful/collectionbuilder/internal/metrics"
	"git.home.luguber.info/inful/collectionbuilder/internal/notify"
)

// definitions maps the configured collections onto build definitions.
func definitions(cfg *config.Config) []collection.Definition {
	defs := collection.DefaultDefinitions(cfg.Content.Root)
	for i := range defs {
		defs[i].Directory, defs[i].Include = cfg.CollectionSource(defs[i].Name)
	}
	return defs
}

// loadAuthors reads the author registry. A missing file yields an empty
// registry so sites without posts need no registry.
func loadAuthors(path string, logger *slog.Logger) (*authors.Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("Author registry not found; posts with authors will be rejected", logfields.Path(path))
		return authors.NewRegistry(nil), nil
	}
	return authors.Load(path)
}

// session owns the long-lived collaborators shared by every build of one
// command invocation.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	output    string
	recorder  *metrics.PrometheusRecorder
	history   eventstore.Store
	publisher notify.Publisher
	// persist enables side effects beyond the output directory: the metrics
	// textfile, build history and announcements.
	persist bool
}

// openSession wires metrics and, when persist is set, the configured metrics
// textfile, build history and NATS publisher. An empty output skips writing
// collections.
func openSession(cfg *config.Config, logger *slog.Logger, output string, persist bool) (*session, error) {
	s := &session{
		cfg:       cfg,
		logger:    logger,
		output:    output,
		recorder:  metrics.NewPrometheusRecorder(nil),
		publisher: notify.Noop{},
		persist:   persist,
	}
	if !persist {
		return s, nil
	}
	if cfg.History.Database != "" {
		store, err := openHistory(cfg.History.Database)
		if err != nil {
			return nil, err
		}
		s.history = store
	}
	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(notify.NATSOptions{
			URL:     cfg.Notify.NATSURL,
			Subject: cfg.Notify.Subject,
			Output:  output,
			Logger:  logger,
		})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.publisher = pub
	}
	return s, nil
}

func openHistory(path string) (*eventstore.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create history directory").
			WithContext("path", path).
			Build()
	}
	return eventstore.NewSQLiteStore(path)
}

// Close releases the history store and publisher.
func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			s.logger.Warn("Failed to close build history", logfields.Error(err))
		}
	}
	if err := s.publisher.Close(); err != nil {
		s.logger.Warn("Failed to close publisher", logfields.Error(err))
	}
}

// newBuilder wires a builder from configuration. The registry is re-read on
// every call so watch rebuilds pick up author edits.
func (s *session) newBuilder() (*collection.Builder, error) {
	reg, err := loadAuthors(s.cfg.Authors.File, s.logger)
	if err != nil {
		return nil, err
	}
	tr, err := collection.NewTransformer(collection.TransformerOptions{
		Authors:      reg,
		ImagePrefix:  s.cfg.Authors.ImagePrefix,
		Theme:        s.cfg.Highlight.Theme,
		ObserveStage: s.recorder.ObserveStageDuration,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}
	return collection.NewBuilder(definitions(s.cfg), tr,
		collection.WithRecorder(s.recorder),
		collection.WithLogger(s.logger),
		collection.WithConcurrency(s.cfg.Build.Concurrency),
		collection.WithDrafts(s.cfg.Build.Drafts()),
	), nil
}

// build performs one build pass and its side effects: output files, the
// metrics textfile, the history record and the build announcement. Side
// effects after the output is written only log on failure.
func (s *session) build(ctx context.Context) (*collection.Result, error) {
	started := time.Now()
	b, err := s.newBuilder()
	if err != nil {
		return nil, err
	}
	res, err := b.Build(ctx)
	if err != nil {
		s.recordFailure(started, err)
		return nil, err
	}

	rev, err := git.HeadRevision(s.cfg.Content.Root)
	if err != nil {
		s.logger.Warn("Failed to read content revision", logfields.Error(err))
	}
	res.Manifest.Revision = rev

	if s.output != "" {
		if err := res.WriteTo(s.output); err != nil {
			return nil, err
		}
		s.logger.Info("Collections written", logfields.Output(s.output))
	}
	if s.persist && s.cfg.Metrics.Textfile != "" {
		if err := s.recorder.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			s.logger.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if s.history != nil {
		if err := eventstore.RecordBuild(context.WithoutCancel(ctx), s.history, s.cfg.Content.Root, res.Manifest, started, time.Since(started)); err != nil {
			s.logger.Warn("Failed to record build history", logfields.Error(err))
		}
	}
	if err := s.publisher.Publish(ctx, res.Manifest); err != nil {
		s.logger.Warn("Failed to publish build announcement", logfields.Error(err))
	}
	return res, nil
}

func (s *session) recordFailure(started time.Time, cause error) {
	if s.history == nil {
		return
	}
	err := eventstore.RecordFailure(context.Background(), s.history, uuid.NewString(), s.cfg.Content.Root, started, time.Since(started), cause)
	if err != nil {
		s.logger.Warn("Failed to record build history", logfields.Error(err))
	}
}

// rejectedError reports rejected documents as a build failure.
func rejectedError(res *collection.Result) error {
	if len(res.Failures) == 0 {
		return nil
	}
	return errors.BuildError(fmt.Sprintf("%d document(s) rejected", len(res.Failures))).
		WithContext("failures", len(res.Failures)).
		WithContext("first", res.Failures[0].Error()).
		Build()
}