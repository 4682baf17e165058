package commands

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/collectionbuilder/internal/markup"
)

// VisualizeCmd implements the 'visualize' command.
type VisualizeCmd struct {
	Format string `short:"f" help:"Output format: text, mermaid, dot, json" default:"text" enum:"text,mermaid,dot,json"`
	Output string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
	List   bool   `short:"l" help:"List available formats and exit"`
}

// Run executes the visualize command.
func (cmd *VisualizeCmd) Run(_ *Global, root *CLI) error {
	if cmd.List {
		fmt.Println("Available visualization formats:")
		fmt.Println()
		for _, format := range markup.SupportedFormats() {
			fmt.Printf("  %-10s %s\n", format, markup.FormatDescription(format))
		}
		return nil
	}

	cfg, _, err := loadConfig(root)
	if err != nil {
		return err
	}
	stages, err := markup.DefaultStages(cfg.Highlight.Theme)
	if err != nil {
		return err
	}
	output, err := markup.Visualize(stages, markup.VisualizationFormat(cmd.Format))
	if err != nil {
		return fmt.Errorf("failed to visualize compile chain: %w", err)
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		slog.Info("Compile chain visualization written", "file", cmd.Output, "format", cmd.Format)
		return nil
	}
	fmt.Print(output)
	return nil
}
