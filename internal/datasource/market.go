package datasource

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/v75-value/internal/models"
)

// LoadMarketFile reads betting shares keyed by race, e.g. {"V75-3": {"horses": [...]}}
func LoadMarketFile(path string) (models.MarketData, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(path, ErrCodeNotFound, "market file not found", fmt.Errorf("%w: %v", ErrNotFound, err))
		}
		return nil, NewDataSourceError(path, ErrCodeIO, "failed to open market file", err)
	}
	defer f.Close()

	return LoadMarketData(f, path)
}

// LoadMarketData decodes and validates market data
func LoadMarketData(r io.Reader, source string) (models.MarketData, error) {
	var market models.MarketData
	if err := json.NewDecoder(r).Decode(&market); err != nil {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "failed to decode market JSON", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	validate := validator.New()
	for key, race := range market {
		if err := validate.Struct(race); err != nil {
			return nil, NewDataSourceError(source, ErrCodeInvalidData, "invalid betting shares for "+key, fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
	}
	return market, nil
}
