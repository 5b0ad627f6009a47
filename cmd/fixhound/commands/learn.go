package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/fixhound/pkg/extract"
	"github.com/Sumatoshi-tech/fixhound/pkg/gitsrc"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// LearnCommand holds the configuration for the learn command.
type LearnCommand struct {
	commonFlags

	limit int
	full  bool
}

// NewLearnCommand creates and configures the learn command.
func NewLearnCommand() *cobra.Command {
	lc := &LearnCommand{}

	cobraCmd := &cobra.Command{
		Use:   "learn [repository]",
		Short: "Mine new commits into the pattern store",
		Long: `Walk the repository history from HEAD back to the last learned commit,
extract single-line bug-fix pairs from each commit's diffs, classify them,
and merge the resulting patterns into the store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: lc.run,
	}

	cobraCmd.Flags().IntVar(&lc.limit, "limit", 0, "Limit number of commits to mine (0 = config default)")
	cobraCmd.Flags().BoolVar(&lc.full, "full", false, "Ignore the bookmark and re-mine the full history")
	cobraCmd.Flags().StringVar(&lc.storePath, "store", "", "Pattern store path (overrides config)")
	cobraCmd.Flags().StringVarP(&lc.configPath, "config", "c", "", "Config file path")

	return cobraCmd
}

func (lc *LearnCommand) run(_ *cobra.Command, args []string) error {
	cfg, err := lc.loadConfig()
	if err != nil {
		return err
	}

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	limit := cfg.Learn.Limit
	if lc.limit > 0 {
		limit = lc.limit
	}

	store := openStore(cfg)

	src, err := gitsrc.Open(repoPath)
	if err != nil {
		return err
	}
	defer src.Free()

	stopAt := store.LastScannedSHA()
	if lc.full {
		stopAt = ""
	}

	slog.Debug("walking history", "repo", repoPath, "stop_at", stopAt, "limit", limit)

	commits, err := src.CommitsSince(gitsrc.WalkOptions{Limit: limit, StopAt: stopAt})
	if err != nil {
		return err
	}

	if len(commits) == 0 {
		fmt.Fprintln(os.Stdout, "Pattern store is up to date.")

		return nil
	}

	extractor := extract.NewExtractor(memory.UUIDSource{})
	patterns := extractor.FromCommits(commits)

	before := len(store.Patterns())

	err = store.Merge(patterns)
	if err != nil {
		return err
	}

	head, err := src.Head()
	if err != nil {
		return err
	}

	err = store.Bookmark(head)
	if err != nil {
		return err
	}

	slog.Debug("bookmark updated", "sha", head)

	fmt.Fprintf(os.Stdout, "Mined %s, extracted %s (%d new), store has %s.\n",
		plural(len(commits), "commit"),
		plural(len(patterns), "pattern"),
		len(store.Patterns())-before,
		plural(len(store.Patterns()), "pattern"))

	return nil
}

func plural(n int, noun string) string {
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), pluralize(n, noun))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}

	return noun + "s"
}
