package reporting

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetRunOutputDir returns baseDir/run_<first 8 chars of the run id>
func (p *DefaultPathManager) GetRunOutputDir(baseDir, runID string) string {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "results"
	}
	id := strings.TrimSpace(runID)
	if id == "" {
		id = "unknown"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(baseDir, "run_"+id)
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// RunOutputDir is the package-level form of GetRunOutputDir
func RunOutputDir(baseDir, runID string) string {
	return NewDefaultPathManager().GetRunOutputDir(baseDir, runID)
}
