package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet     = "Summary"
	selectedSheet    = "Selected Assets"
	generationsSheet = "Generations"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WritePortfolioXLSX writes a workbook with Summary, Selected Assets and Generations sheets
func (r *DefaultExcelReporter) WritePortfolioXLSX(report *Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(selectedSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(generationsSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeSelectedSheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeGenerationsSheet(fx, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	thinBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    thinBorder,
	})
	if err != nil {
		return styles, err
	}

	// 4 decimal places
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: stringPtr("0.0000"),
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.GoodStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "006100"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.BadStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "9C0006"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: thinBorder,
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	res := report.Result
	best := res.Best

	rows := [][2]interface{}{
		{"Run ID", res.RunID},
		{"Catalog", report.Source},
		{"Assets In Catalog", len(report.Assets)},
		{"Seed", res.Seed},
		{"Started", res.StartedAt.Format("2006-01-02 15:04:05")},
		{"Duration (ms)", res.Duration.Milliseconds()},
		{"Generations", res.Generations},
		{"Population", res.Config.PopulationSize},
		{"Mutation Rate", res.Config.MutationRate},
		{"Max Assets", res.Config.Constraints.PortfolioSizeLimit},
		{"Max Risk", res.Config.Constraints.MaxRisk},
		{"Max Avg Beta", res.Config.Constraints.MaxAvgBeta},
		{"Outcome", string(res.Outcome)},
		{"Score", best.Fitness},
		{"Found In Generation", best.Generation},
		{"Avg Variation", best.AvgVariation},
		{"Avg Beta", best.AvgBeta},
		{"Avg Risk", best.AvgRisk},
		{"Asset Count", best.Count},
		{"Chromosome", report.ChromosomeString()},
		{"Selected", strings.Join(report.SelectedNames(), ", ")},
	}

	if err := writeRow(fx, summarySheet, 1, []interface{}{"Metric", "Value"}, styles.HeaderStyle); err != nil {
		return err
	}
	for i, row := range rows {
		rowNum := i + 2
		if err := writeCell(fx, summarySheet, 1, rowNum, row[0], styles.SummaryStyle); err != nil {
			return err
		}
		style := styles.BaseStyle
		if _, ok := row[1].(float64); ok {
			style = styles.NumberStyle
		}
		if row[0] == "Outcome" {
			style = styles.GoodStyle
			if !res.Solved() {
				style = styles.BadStyle
			}
		}
		if err := writeCell(fx, summarySheet, 2, rowNum, row[1], style); err != nil {
			return err
		}
	}

	if err := fx.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	return fx.SetColWidth(summarySheet, "B", "B", 48)
}

func (r *DefaultExcelReporter) writeSelectedSheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	if err := writeRow(fx, selectedSheet, 1, []interface{}{"#", "Asset", "Variation", "Beta", "Risk"}, styles.HeaderStyle); err != nil {
		return err
	}

	if !report.Result.Solved() {
		return writeCell(fx, selectedSheet, 1, 2, "A valid solution was not found", styles.BadStyle)
	}

	for i, a := range report.Selected {
		rowNum := i + 2
		if err := writeRow(fx, selectedSheet, rowNum, []interface{}{i + 1, a.Name}, styles.BaseStyle); err != nil {
			return err
		}
		for col, v := range []float64{a.Variation, a.Beta, a.Risk} {
			if err := writeCell(fx, selectedSheet, col+3, rowNum, v, styles.NumberStyle); err != nil {
				return err
			}
		}
	}

	return fx.SetColWidth(selectedSheet, "B", "E", 14)
}

func (r *DefaultExcelReporter) writeGenerationsSheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	header := make([]interface{}, len(generationsHeader))
	for i, h := range generationsHeader {
		header[i] = strings.ReplaceAll(h, "_", " ")
	}
	if err := writeRow(fx, generationsSheet, 1, header, styles.HeaderStyle); err != nil {
		return err
	}

	for i, g := range report.Result.History {
		rowNum := i + 2
		values := []interface{}{
			g.Generation, g.BestFitness, g.BestEverFitness, g.AverageFitness, g.WorstFitness,
			g.EvaluationSum, g.FeasibleCount, g.PopulationSize, g.Improved, g.BestChromosome,
		}
		for col, v := range values {
			style := styles.BaseStyle
			if _, ok := v.(float64); ok {
				style = styles.NumberStyle
			}
			if err := writeCell(fx, generationsSheet, col+1, rowNum, v, style); err != nil {
				return err
			}
		}
	}

	return fx.SetColWidth(generationsSheet, "A", "J", 16)
}

func writeRow(fx *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, v := range values {
		if err := writeCell(fx, sheet, i+1, row, v, style); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(fx *excelize.File, sheet string, col, row int, value interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := fx.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, cell, cell, style)
}

func stringPtr(s string) *string {
	return &s
}
