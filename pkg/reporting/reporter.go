package reporting

import (
	"io"
	"path/filepath"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

// Output file names inside a run directory
const (
	ResultFileName      = "result.json"
	GenerationsFileName = "generations.csv"
	WorkbookFileName    = "portfolio.xlsx"
)

// DefaultReporter implements Reporter using the default components
type DefaultReporter struct {
	*DefaultConsoleReporter
	*DefaultExcelReporter
	*DefaultPathManager
}

// NewDefaultReporter creates a new reporter with all default components
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		DefaultConsoleReporter: NewDefaultConsoleReporter(),
		DefaultExcelReporter:   NewDefaultExcelReporter(),
		DefaultPathManager:     NewDefaultPathManager(),
	}
}

func (r *DefaultReporter) WriteResultJSON(report *Report, path string) error {
	return WriteResultJSON(report, path)
}

func (r *DefaultReporter) WriteGenerationsCSV(report *Report, path string) error {
	return WriteGenerationsCSV(report, path)
}

// Generate prints the console report and writes the enabled files into
// OutputDirectory. It returns the paths written.
func (r *DefaultReporter) Generate(w io.Writer, report *Report, cfg ReportingConfig) ([]string, error) {
	if cfg.EnableConsole && w != nil {
		r.OutputReport(w, report)
	}

	outputs := []struct {
		enabled bool
		name    string
		write   func(*Report, string) error
	}{
		{cfg.JSONEnabled, ResultFileName, r.WriteResultJSON},
		{cfg.CSVEnabled, GenerationsFileName, r.WriteGenerationsCSV},
		{cfg.ExcelEnabled, WorkbookFileName, r.WritePortfolioXLSX},
	}

	var written []string
	for _, out := range outputs {
		if !out.enabled {
			continue
		}
		path := filepath.Join(cfg.OutputDirectory, out.name)
		if err := out.write(report, path); err != nil {
			return written, opterrors.NewOutputError("reporting", "Generate", err).
				WithContext("file", path)
		}
		written = append(written, path)
	}
	return written, nil
}

var _ Reporter = (*DefaultReporter)(nil)
