package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteResultJSON writes the report document, including per-generation history
func WriteResultJSON(report *Report, path string) error {
	data, err := FormatResultJSON(report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// FormatResultJSON renders the report document as indented JSON
func FormatResultJSON(report *Report) ([]byte, error) {
	return json.MarshalIndent(report.Document(true), "", "  ")
}
