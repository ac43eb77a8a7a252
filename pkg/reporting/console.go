package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter prints run results as rounded tables
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputReport prints the run summary and, when a valid portfolio was found, its assets
func (r *DefaultConsoleReporter) OutputReport(w io.Writer, report *Report) {
	res := report.Result
	best := res.Best

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("PORTFOLIO OPTIMIZATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🆔 Run", res.RunID},
		{"📂 Catalog", fmt.Sprintf("%s (%d assets)", report.Source, len(report.Assets))},
		{"🎲 Seed", res.Seed},
		{"🧬 Generations", res.Generations},
		{"⏱️ Duration", res.Duration.Round(time.Millisecond).String()},
	})
	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"Population", res.Config.PopulationSize},
		{"Mutation Rate", fmt.Sprintf("%.2f", res.Config.MutationRate)},
		{"Max Assets", res.Config.Constraints.PortfolioSizeLimit},
		{"Max Risk", fmt.Sprintf("%.2f", res.Config.Constraints.MaxRisk)},
		{"Max Avg Beta", fmt.Sprintf("%.2f", res.Config.Constraints.MaxAvgBeta)},
	})
	t.AppendSeparator()

	if res.Solved() {
		t.AppendRows([]table.Row{
			{"✅ Outcome", "solved"},
			{"Score", fmt.Sprintf("%.4f", best.Fitness)},
			{"Found In Generation", best.Generation},
			{"Avg Variation", fmt.Sprintf("%.4f", best.AvgVariation)},
			{"Avg Beta", fmt.Sprintf("%.4f", best.AvgBeta)},
			{"Avg Risk", fmt.Sprintf("%.4f", best.AvgRisk)},
			{"Assets", best.Count},
			{"Chromosome", report.ChromosomeString()},
		})
	} else {
		t.AppendRow(table.Row{"⚠️ Outcome", "a valid solution was not found"})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 50, Align: text.AlignLeft},
	})
	t.Render()

	if !res.Solved() || len(report.Selected) == 0 {
		return
	}

	at := table.NewWriter()
	at.SetOutputMirror(w)
	at.SetTitle("SELECTED ASSETS")
	at.SetStyle(table.StyleRounded)
	at.AppendHeader(table.Row{"#", "Asset", "Variation", "Beta", "Risk"})
	for i, a := range report.Selected {
		at.AppendRow(table.Row{
			i + 1,
			a.Name,
			fmt.Sprintf("%.3f", a.Variation),
			fmt.Sprintf("%.2f", a.Beta),
			fmt.Sprintf("%.3f", a.Risk),
		})
	}
	at.AppendFooter(table.Row{"", strings.Join(report.SelectedNames(), ", ")})
	at.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	at.Render()
}

// PrintHistory prints every nth generation of the run
func (r *DefaultConsoleReporter) PrintHistory(w io.Writer, report *Report, every int) {
	if every <= 0 {
		every = 1
	}
	history := report.Result.History

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("EVOLUTION")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Generation", "Best", "Best Ever", "Average", "Feasible"})
	for i, g := range history {
		if i%every != 0 && i != len(history)-1 {
			continue
		}
		t.AppendRow(table.Row{
			g.Generation,
			fmt.Sprintf("%.4f", g.BestFitness),
			fmt.Sprintf("%.4f", g.BestEverFitness),
			fmt.Sprintf("%.4f", g.AverageFitness),
			fmt.Sprintf("%d/%d", g.FeasibleCount, g.PopulationSize),
		})
	}
	t.Render()
}
