package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// CSVColumns holds the positions of the asset fields, resolved from the header row
type CSVColumns struct {
	Name      int
	Variation int
	Beta      int
	Risk      int
}

var requiredColumns = []string{"name", "variation", "beta", "risk"}

// CSVProvider loads assets from a CSV file with a name,variation,beta,risk header.
// Column order is free; extra columns are ignored.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider for the given file
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV " + filepath.Base(p.path)
}

// Load reads the file
func (p *CSVProvider) Load(ctx context.Context) ([]types.Asset, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseAssetsCSV(file)
}

// ParseAssetsCSV parses asset rows. Malformed rows are logged and skipped;
// a file without any usable row is an error.
func ParseAssetsCSV(r io.Reader) ([]types.Asset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("asset CSV is empty")
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	minColumns := max(cols.Name, cols.Variation, cols.Beta, cols.Risk) + 1

	var assets []types.Asset
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < minColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, minColumns, len(record))
			continue
		}

		name := strings.TrimSpace(record[cols.Name])
		if name == "" {
			log.Printf("⚠️ Empty asset name at line %d, skipping", lineNum)
			continue
		}

		variation, err := parseField(record[cols.Variation])
		if err != nil {
			log.Printf("⚠️ Invalid variation '%s' at line %d, skipping: %v", record[cols.Variation], lineNum, err)
			continue
		}
		beta, err := parseField(record[cols.Beta])
		if err != nil {
			log.Printf("⚠️ Invalid beta '%s' at line %d, skipping: %v", record[cols.Beta], lineNum, err)
			continue
		}
		risk, err := parseField(record[cols.Risk])
		if err != nil {
			log.Printf("⚠️ Invalid risk '%s' at line %d, skipping: %v", record[cols.Risk], lineNum, err)
			continue
		}
		if risk < 0 {
			log.Printf("⚠️ Negative risk at line %d, skipping", lineNum)
			continue
		}

		assets = append(assets, types.Asset{
			Name:      name,
			Variation: variation,
			Beta:      beta,
			Risk:      risk,
		})
	}

	if len(assets) == 0 {
		return nil, fmt.Errorf("asset CSV contains no valid rows")
	}
	return assets, nil
}

func resolveColumns(header []string) (CSVColumns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return CSVColumns{}, fmt.Errorf("asset CSV header is missing column %q", name)
		}
	}
	return CSVColumns{
		Name:      index["name"],
		Variation: index["variation"],
		Beta:      index["beta"],
		Risk:      index["risk"],
	}, nil
}

func parseField(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	return v, nil
}

// WriteAssetsCSV writes assets in the format ParseAssetsCSV reads
func WriteAssetsCSV(w io.Writer, assets []types.Asset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(requiredColumns); err != nil {
		return err
	}
	for _, a := range assets {
		row := []string{
			a.Name,
			strconv.FormatFloat(a.Variation, 'f', -1, 64),
			strconv.FormatFloat(a.Beta, 'f', -1, 64),
			strconv.FormatFloat(a.Risk, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
