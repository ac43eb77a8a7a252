package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

var generationsHeader = []string{
	"Generation",
	"Best_Fitness",
	"Best_Ever_Fitness",
	"Average_Fitness",
	"Worst_Fitness",
	"Evaluation_Sum",
	"Feasible_Count",
	"Population_Size",
	"Improved",
	"Best_Chromosome",
}

// WriteGenerationsCSV writes one row per evaluated generation
func WriteGenerationsCSV(report *Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(generationsHeader); err != nil {
		return err
	}

	for _, g := range report.Result.History {
		if err := w.Write([]string{
			strconv.Itoa(g.Generation),
			formatFloat(g.BestFitness),
			formatFloat(g.BestEverFitness),
			formatFloat(g.AverageFitness),
			formatFloat(g.WorstFitness),
			formatFloat(g.EvaluationSum),
			strconv.Itoa(g.FeasibleCount),
			strconv.Itoa(g.PopulationSize),
			strconv.FormatBool(g.Improved),
			g.BestChromosome,
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
