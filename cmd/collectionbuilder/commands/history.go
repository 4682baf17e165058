package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/eventstore"
	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// HistoryCmd lists recorded builds.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to show" default:"10"`
	JSON  bool `name:"json" help:"Print summaries as JSON"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, _, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History.Database == "" {
		return errors.ConfigError("build history is disabled (set history.database)").Build()
	}
	if _, err := os.Stat(cfg.History.Database); os.IsNotExist(err) {
		fmt.Println("No builds recorded")
		return nil
	}

	store, err := eventstore.NewSQLiteStore(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewBuildHistoryProjection(store, h.Limit)
	if err := projection.Rebuild(context.Background()); err != nil {
		return err
	}
	return printHistory(os.Stdout, projection.History(), h.JSON)
}

func printHistory(w io.Writer, builds []eventstore.BuildSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}
	if len(builds) == 0 {
		_, err := fmt.Fprintln(w, "No builds recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tDURATION\tCOLLECTIONS\tREJECTED\tCOMMIT")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(b.BuildID),
			b.StartedAt.Local().Format(time.DateTime),
			b.Status,
			b.Duration.Round(time.Millisecond),
			formatCounts(b.Collections),
			len(b.Rejected),
			shortID(b.Commit),
		)
	}
	return tw.Flush()
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
