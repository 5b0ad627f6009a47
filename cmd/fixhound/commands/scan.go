package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/fixhound/internal/config"
	"github.com/Sumatoshi-tech/fixhound/pkg/langid"
	"github.com/Sumatoshi-tech/fixhound/pkg/risk"
	"github.com/Sumatoshi-tech/fixhound/pkg/scan"
)

// Score thresholds for table color assignment.
const (
	scoreHigh   = 8
	scoreMedium = 5
)

// ScanCommand holds the configuration for the scan command.
type ScanCommand struct {
	commonFlags

	sensitivity string
	format      string
	language    string
}

// Finding is one reported match, bound to the scanned file.
type Finding struct {
	File string `json:"file" yaml:"file"`
	scan.Result
}

// NewScanCommand creates and configures the scan command.
func NewScanCommand() *cobra.Command {
	sc := &ScanCommand{}

	cobraCmd := &cobra.Command{
		Use:   "scan <files...>",
		Short: "Scan files against the learned patterns",
		Long: `Match each line of the given files against the pattern store, score the
matches, and report those passing the sensitivity threshold.`,
		Args: cobra.MinimumNArgs(1),
		RunE: sc.run,
	}

	cobraCmd.Flags().StringVarP(&sc.sensitivity, "sensitivity", "s", "", "Visibility threshold: low, medium, high (overrides config)")
	cobraCmd.Flags().StringVarP(&sc.format, "format", "f", "", "Output format: table, json, yaml (overrides config)")
	cobraCmd.Flags().StringVarP(&sc.language, "language", "l", "", "Force a language tag instead of detecting per file")
	cobraCmd.Flags().StringVar(&sc.storePath, "store", "", "Pattern store path (overrides config)")
	cobraCmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Config file path")

	return cobraCmd
}

func (sc *ScanCommand) run(_ *cobra.Command, args []string) error {
	cfg, err := sc.loadConfig()
	if err != nil {
		return err
	}

	if sc.sensitivity != "" {
		cfg.Scan.Sensitivity = sc.sensitivity
	}

	if sc.format != "" {
		cfg.Scan.Format = sc.format
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	store := openStore(cfg)
	scanner := scan.NewScanner(store)
	level := cfg.Sensitivity()

	var findings []Finding

	for _, path := range args {
		fileFindings, scanErr := sc.scanFile(scanner, path, level)
		if scanErr != nil {
			return scanErr
		}

		findings = append(findings, fileFindings...)
	}

	return renderFindings(findings, cfg)
}

func (sc *ScanCommand) scanFile(scanner *scan.Scanner, path string, level risk.Sensitivity) ([]Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	lang := sc.language
	if lang == "" {
		lang = langid.Detect(path, content)
	}

	slog.Debug("scanning", "file", path, "language", lang)

	lines := strings.Split(string(content), "\n")
	results := scanner.ScanLines(lines, lang, path)

	findings := make([]Finding, 0, len(results))

	for _, r := range results {
		if risk.AdjustForSensitivity(r.RiskScore, level) == 0 {
			continue
		}

		findings = append(findings, Finding{File: path, Result: r})
	}

	return findings, nil
}

func renderFindings(findings []Finding, cfg *config.Config) error {
	switch cfg.Scan.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(findings)
		if err != nil {
			return fmt.Errorf("encode findings: %w", err)
		}

		return nil
	case config.FormatYAML:
		err := yaml.NewEncoder(os.Stdout).Encode(findings)
		if err != nil {
			return fmt.Errorf("encode findings: %w", err)
		}

		return nil
	default:
		renderFindingsTable(findings, cfg.Scan.NoColor)

		return nil
	}
}

func renderFindingsTable(findings []Finding, noColor bool) {
	if len(findings) == 0 {
		fmt.Fprintln(os.Stdout, "No risky lines found.")

		return
	}

	color.NoColor = noColor || color.NoColor

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Line", "Risk", "Category", "Reason"})

	for _, f := range findings {
		t.AppendRow(table.Row{
			f.File,
			f.LineNumber + 1,
			colorScore(f.RiskScore),
			string(f.Category),
			f.Reason,
		})
	}

	t.Render()
}

func colorScore(score int) string {
	text := fmt.Sprintf("%d/10", score)

	switch {
	case score >= scoreHigh:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case score >= scoreMedium:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgGreen).Sprint(text)
	}
}
