package datasource

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/models"
)

// RaceFiles names the inputs of one analysis; TrackJSON is optional
type RaceFiles struct {
	RaceCSV    string
	MarketJSON string
	TrackJSON  string
}

// RaceInput is everything the analysis needs about one race
type RaceInput struct {
	Race   *models.Race
	Market models.MarketData
}

// Loader assembles a race from its input files
type Loader struct {
	entrants  *EntrantLoader
	keyPrefix string
	logger    *logrus.Entry
}

// NewLoader creates a loader; keyPrefix is the market-data race key prefix (default "V75")
func NewLoader(keyPrefix string, logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Loader{
		entrants:  NewEntrantLoader(logger),
		keyPrefix: keyPrefix,
		logger:    logger.WithField("component", "datasource"),
	}
}

// LoadRace reads entrants, market data and, when given, track statistics. A track file that
// cannot be read is logged and ignored; the track-position score then stays neutral.
func (l *Loader) LoadRace(files RaceFiles) (*RaceInput, error) {
	entrants, err := l.entrants.LoadFile(files.RaceCSV)
	if err != nil {
		return nil, err
	}

	race := &models.Race{
		Number:    RaceNumberFromFilename(files.RaceCSV),
		Entrants:  entrants,
		KeyPrefix: l.keyPrefix,
	}
	if err := race.Validate(); err != nil {
		return nil, NewDataSourceError(files.RaceCSV, ErrCodeInvalidData, "invalid race", err)
	}

	var market models.MarketData
	if files.MarketJSON != "" {
		market, err = LoadMarketFile(files.MarketJSON)
		if err != nil {
			return nil, err
		}
		if _, ok := market[race.MarketKey()]; !ok {
			l.logger.WithFields(logrus.Fields{
				"market_file": files.MarketJSON,
				"race_key":    race.MarketKey(),
			}).Warn("Market data has no entry for race, using uniform betting shares")
		}
	}

	if files.TrackJSON != "" {
		stats, err := LoadTrackFile(files.TrackJSON)
		if err != nil {
			var dsErr DataSourceError
			if errors.As(err, &dsErr) {
				l.logger.WithField("code", dsErr.Code).WithError(err).Warn("Ignoring unreadable track statistics")
			}
		} else {
			race.TrackStatistics = stats
		}
	}

	l.logger.WithFields(logrus.Fields{
		"race_number": race.Number,
		"entrants":    len(race.Entrants),
		"has_market":  market != nil,
		"has_track":   race.TrackStatistics != nil,
	}).Info("Race loaded")

	return &RaceInput{Race: race, Market: market}, nil
}
