package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
)

// Logger writes one optimizer session to a log file.
// It satisfies optimization.Logger and can also mirror lines to a console writer.
type Logger struct {
	name    string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logPath string
	mirror  io.Writer
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelGen     LogLevel = "GEN"
)

// NewLogger creates logDir/<name>.log (appending) and writes the session header
func NewLogger(logDir, name string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, name+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		name:    name,
		logFile: file,
		logger:  log.New(file, "", 0),
		logPath: logPath,
	}

	l.writeSessionHeader()
	return l, nil
}

// SetMirror copies every entry to w as well (nil disables)
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = w
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🧬 PORTFOLIO OPTIMIZATION SESSION STARTED
================================================================================
Session: %s
Started: %s
================================================================================
`, l.name, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))

	l.logger.Println(entry)
	if l.mirror != nil {
		fmt.Fprintln(l.mirror, entry)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogConfig records the run parameters
func (l *Logger) LogConfig(cfg optimization.OptimizationConfig, source string, assets int) {
	l.Info("Catalog: %s (%d assets)", source, assets)
	l.Info("Population: %d | Generations: %d | Mutation: %.2f | Seed: %d",
		cfg.PopulationSize, cfg.Generations, cfg.MutationRate, cfg.Seed)
	l.Info("Max assets: %d | Max risk: %.2f | Max avg beta: %.2f",
		cfg.Constraints.PortfolioSizeLimit, cfg.Constraints.MaxRisk, cfg.Constraints.MaxAvgBeta)
}

// OnGeneration logs improvements of the best-ever candidate
func (l *Logger) OnGeneration(stats optimization.GenerationStats) {
	if !stats.Improved {
		return
	}
	l.Log(LogLevelGen, "New best at generation %d: %.4f (%d/%d feasible)",
		stats.Generation, stats.BestEverFitness, stats.FeasibleCount, stats.PopulationSize)
}

// LogResult writes the final result block
func (l *Logger) LogResult(result *optimization.Result, selected []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	best := result.Best

	var body string
	if result.Solved() {
		body = fmt.Sprintf(`✅ Score: %.4f (generation %d)
📈 Avg Variation: %.4f | Avg Beta: %.4f | Avg Risk: %.4f
📦 Assets (%d): %s
🧬 Chromosome: %s`,
			best.Fitness, best.Generation,
			best.AvgVariation, best.AvgBeta, best.AvgRisk,
			best.Count, strings.Join(selected, ", "),
			optimization.FormatChromosome(result.Chromosome))
	} else {
		body = "⚠️ A valid solution was not found"
	}

	resultLog := fmt.Sprintf(`
[%s] [RESULT] ==================== RUN %s ====================
%s
⏱️ Generations: %d | Duration: %s
=============================================================`,
		timestamp, result.RunID, body, result.Generations, result.Duration.Round(time.Millisecond))

	l.logger.Println(resultLog)
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 PORTFOLIO OPTIMIZATION SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
