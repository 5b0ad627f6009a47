package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// Display truncation widths for the list table.
const (
	exampleColumnWidth = 50
	shortIDLength      = 8
)

// NewPatternsCommand creates the patterns command group.
func NewPatternsCommand() *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect or reset the pattern store",
	}

	cobraCmd.AddCommand(newPatternsListCommand())
	cobraCmd.AddCommand(newPatternsStatsCommand())
	cobraCmd.AddCommand(newPatternsClearCommand())

	return cobraCmd
}

func newPatternsListCommand() *cobra.Command {
	flags := &commonFlags{}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "List learned patterns",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			store := openStore(cfg)

			return runPatternsList(store)
		},
	}

	cobraCmd.Flags().StringVar(&flags.storePath, "store", "", "Pattern store path (overrides config)")
	cobraCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Config file path")

	return cobraCmd
}

func runPatternsList(store *memory.Store) error {
	patterns := store.Patterns()
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stdout, "No patterns learned yet. Run 'fixhound learn' first.")

		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Language", "Category", "Risk", "Seen", "Example"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Example", WidthMax: exampleColumnWidth, WidthMaxEnforcer: text.Trim},
	})

	for _, p := range patterns {
		t.AppendRow(table.Row{
			shortID(p.ID),
			p.Language,
			string(p.Category),
			p.RiskBase,
			p.OccurrenceCount,
			p.BuggyExample,
		})
	}

	t.Render()

	return nil
}

func newPatternsStatsCommand() *cobra.Command {
	flags := &commonFlags{}

	var (
		format string
		output string
	)

	cobraCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show pattern store statistics",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			store := openStore(cfg)

			if format == "plot" {
				return runPatternsPlot(store, output)
			}

			return runPatternsStats(store)
		},
	}

	cobraCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, plot; plot writes HTML)")
	cobraCmd.Flags().StringVarP(&output, "output", "o", "fixhound-stats.html", "Output file for plot format")
	cobraCmd.Flags().StringVar(&flags.storePath, "store", "", "Pattern store path (overrides config)")
	cobraCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Config file path")

	return cobraCmd
}

func runPatternsStats(store *memory.Store) error {
	patterns := store.Patterns()

	totalOccurrences := 0
	byCategory := map[memory.Category]int{}

	for _, p := range patterns {
		totalOccurrences += p.OccurrenceCount
		byCategory[p.Category]++
	}

	fmt.Fprintf(os.Stdout, "Patterns:    %s\n", humanize.Comma(int64(len(patterns))))
	fmt.Fprintf(os.Stdout, "Fixes seen:  %s\n", humanize.Comma(int64(totalOccurrences)))

	if sha := store.LastScannedSHA(); sha != "" {
		fmt.Fprintf(os.Stdout, "Learned to:  %s\n", shortID(sha))
	}

	if !store.GeneratedAt().IsZero() {
		fmt.Fprintf(os.Stdout, "Updated:     %s\n", humanize.Time(store.GeneratedAt()))
	}

	if len(byCategory) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Category", "Patterns"})

	for _, c := range memory.Categories {
		if count, ok := byCategory[c]; ok {
			t.AppendRow(table.Row{string(c), count})
		}
	}

	t.Render()

	return nil
}

func newPatternsClearCommand() *cobra.Command {
	flags := &commonFlags{}

	cobraCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the pattern store and bookmark",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			store := openStore(cfg)

			err = store.Clear()
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, "Pattern store cleared.")

			return nil
		},
	}

	cobraCmd.Flags().StringVar(&flags.storePath, "store", "", "Pattern store path (overrides config)")
	cobraCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Config file path")

	return cobraCmd
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}

	return id[:shortIDLength]
}
