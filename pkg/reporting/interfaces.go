package reporting

import (
	"io"
)

// Package reporting provides output generation for optimizer runs

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputReport(w io.Writer, report *Report)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteResultJSON(report *Report, path string) error
	WriteGenerationsCSV(report *Report, path string) error
	WritePortfolioXLSX(report *Report, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetRunOutputDir(baseDir, runID string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	NumberStyle  int
	GoodStyle    int
	BadStyle     int
	SummaryStyle int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
