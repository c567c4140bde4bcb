package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultRaceNumber is used when a file name carries no race number
const DefaultRaceNumber = 1

var raceNumberPattern = regexp.MustCompile(`(?i)Lopp\s*(\d+)`)

// RaceNumberFromFilename reads the race number from names like "V75 Lopp 3.csv"
func RaceNumberFromFilename(path string) int {
	m := raceNumberPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return DefaultRaceNumber
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultRaceNumber
	}
	return n
}

// Catalog lists the input files in the configured directories
type Catalog struct {
	CSVDir        string
	JSONDir       string
	MarketPattern string
	TrackName     string
}

// ListCSV returns the .csv file names in CSVDir, creating the directory when missing
func (c Catalog) ListCSV() ([]string, error) {
	return listWithExtension(c.CSVDir, ".csv")
}

// ListJSON returns the .json file names in JSONDir, creating the directory when missing
func (c Catalog) ListJSON() ([]string, error) {
	return listWithExtension(c.JSONDir, ".json")
}

// MarketFiles returns JSON files whose name contains the market pattern
func (c Catalog) MarketFiles() ([]string, error) {
	return c.jsonContaining(c.MarketPattern)
}

// TrackFiles returns JSON files whose name contains the track name
func (c Catalog) TrackFiles() ([]string, error) {
	return c.jsonContaining(c.TrackName)
}

// CSVPath joins a listed name with CSVDir
func (c Catalog) CSVPath(name string) string {
	return filepath.Join(c.CSVDir, name)
}

// JSONPath joins a listed name with JSONDir
func (c Catalog) JSONPath(name string) string {
	return filepath.Join(c.JSONDir, name)
}

func (c Catalog) jsonContaining(fragment string) ([]string, error) {
	files, err := c.ListJSON()
	if err != nil {
		return nil, err
	}
	fragment = strings.ToLower(fragment)
	if fragment == "" {
		return nil, nil
	}
	var matched []string
	for _, f := range files {
		if strings.Contains(strings.ToLower(f), fragment) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

func listWithExtension(dir, ext string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewDataSourceError(dir, ErrCodeIO, "failed to create directory", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewDataSourceError(dir, ErrCodeIO, "failed to list directory", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// String describes the catalog for logs
func (c Catalog) String() string {
	return fmt.Sprintf("csv=%s json=%s market=%q track=%q", c.CSVDir, c.JSONDir, c.MarketPattern, c.TrackName)
}
