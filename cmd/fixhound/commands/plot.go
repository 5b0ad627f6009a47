package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// runPatternsPlot writes an interactive HTML bar chart of the pattern store:
// pattern counts and total observed fixes per category.
func runPatternsPlot(store *memory.Store, output string) error {
	patterns := store.Patterns()

	counts := map[memory.Category]int{}
	fixes := map[memory.Category]int{}

	for _, p := range patterns {
		counts[p.Category]++
		fixes[p.Category] += p.OccurrenceCount
	}

	var (
		labels    []string
		countData []opts.BarData
		fixData   []opts.BarData
	)

	for _, c := range memory.Categories {
		if counts[c] == 0 {
			continue
		}

		labels = append(labels, string(c))
		countData = append(countData, opts.BarData{Value: counts[c]})
		fixData = append(fixData, opts.BarData{Value: fixes[c]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Fixhound pattern store",
			Subtitle: fmt.Sprintf("%d patterns", len(patterns)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("patterns", countData)
	bar.AddSeries("fixes seen", fixData)

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	err = bar.Render(file)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s\n", output)

	return nil
}
