package datasource

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/models"
	"github.com/yourusername/v75-value/internal/scoring"
)

// Entrant CSV columns
const (
	ColumnName          = "name"
	ColumnStartNumber   = "start_number"
	ColumnEarnings      = "earnings"
	ColumnCareerResults = "career_results"
)

// PreviousDistanceColumn names the distance column of the i-th (1-based) previous race
func PreviousDistanceColumn(i int) string {
	return "previous_race_" + strconv.Itoa(i) + "_distance"
}

// PreviousPositionColumn names the finishing-position column of the i-th (1-based) previous race
func PreviousPositionColumn(i int) string {
	return "previous_race_" + strconv.Itoa(i) + "_position"
}

// EntrantLoader reads entrant rows from CSV
type EntrantLoader struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewEntrantLoader creates an entrant loader
func NewEntrantLoader(logger *logrus.Logger) *EntrantLoader {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &EntrantLoader{
		validate: validator.New(),
		logger:   logger.WithField("component", "datasource"),
	}
}

// LoadFile reads entrants from a CSV file
func (l *EntrantLoader) LoadFile(path string) ([]*models.Entrant, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(path, ErrCodeNotFound, "entrant file not found", fmt.Errorf("%w: %v", ErrNotFound, err))
		}
		return nil, NewDataSourceError(path, ErrCodeIO, "failed to open entrant file", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load reads entrants from CSV. Every cell is kept as text; conversion is left to the
// scoring normalizer. Rows without a name or a positive start number are skipped.
func (l *EntrantLoader) Load(r io.Reader, source string) ([]*models.Entrant, error) {
	df := dataframe.ReadCSV(r, dataframe.DetectTypes(false), dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "failed to parse entrant CSV", fmt.Errorf("%w: %v", ErrInvalidData, df.Err))
	}

	columns := columnIndex(df.Names())
	for _, required := range []string{ColumnName, ColumnStartNumber} {
		if _, ok := columns[required]; !ok {
			return nil, NewDataSourceError(source, ErrCodeInvalidData, "missing column "+required, ErrInvalidData)
		}
	}

	records := df.Records()
	entrants := make([]*models.Entrant, 0, len(records)-1)
	for i, row := range records[1:] {
		cell := func(column string) string {
			idx, ok := columns[column]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		entrant := buildEntrant(cell)
		if err := l.validate.Struct(entrant); err != nil {
			l.logger.WithFields(logrus.Fields{
				"source": source,
				"row":    i + 2,
				"name":   cell(ColumnName),
			}).WithError(err).Warn("Skipping invalid entrant row")
			continue
		}
		entrants = append(entrants, entrant)
	}

	if len(entrants) == 0 {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "no valid entrant rows", models.ErrEmptyRace)
	}

	return entrants, nil
}

func buildEntrant(cell func(string) string) *models.Entrant {
	entrant := &models.Entrant{
		Name:          cell(ColumnName),
		Earnings:      scoring.ParseMoney(cell(ColumnEarnings)),
		CareerResults: cell(ColumnCareerResults),
	}
	if scoring.IsMissing(entrant.Name) {
		entrant.Name = ""
	}
	if n, ok := scoring.ParsePositiveInt(cell(ColumnStartNumber)); ok {
		entrant.StartNumber = n
	}

	for i := 1; i <= models.MaxPreviousRaces; i++ {
		entrant.PreviousRaces = append(entrant.PreviousRaces, models.PreviousRace{
			Distance: cell(PreviousDistanceColumn(i)),
			Position: cell(PreviousPositionColumn(i)),
		})
	}
	return entrant
}

// columnIndex maps normalized header names to their position
func columnIndex(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}
