package datasource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/v75-value/internal/models"
)

const raceCSV = `name,start_number,earnings,career_results,previous_race_1_distance,previous_race_1_position,previous_race_2_distance,previous_race_2_position,previous_race_3_distance,previous_race_3_position
Blixten,1,"500 000 kr",20 5-3-2,2140,1,1640,2,2640,3
Stjärnfall,2,120000,8 1-1-0,2140,d,,,,
,3,0,,,,,,,
Månsken,x,0,,,,,,,
Virvel,4,NA,NA,NA,NA,NA,NA,NA,NA
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEntrantLoaderLoad(t *testing.T) {
	entrants, err := NewEntrantLoader(nil).Load(strings.NewReader(raceCSV), "race.csv")
	require.NoError(t, err)
	require.Len(t, entrants, 3)

	first := entrants[0]
	assert.Equal(t, "Blixten", first.Name)
	assert.Equal(t, 1, first.StartNumber)
	assert.Equal(t, int64(500000), first.Earnings.IntPart())
	assert.Equal(t, "20 5-3-2", first.CareerResults)
	require.Len(t, first.PreviousRaces, models.MaxPreviousRaces)
	assert.Equal(t, "2640", first.PreviousRaces[2].Distance)
	assert.Equal(t, "3", first.PreviousRaces[2].Position)

	second := entrants[1]
	assert.Equal(t, "d", second.PreviousRaces[0].Position, "disqualification marker kept")
	assert.Empty(t, second.PreviousRaces[1].Distance)

	assert.Equal(t, "Virvel", entrants[2].Name)
	assert.True(t, entrants[2].Earnings.IsZero(), "missing earnings read as zero")
}

func TestEntrantLoaderHeaderNormalization(t *testing.T) {
	csv := "\ufeffName , Start_Number\nBlixten,1\n"
	entrants, err := NewEntrantLoader(nil).Load(strings.NewReader(csv), "bom.csv")
	require.NoError(t, err)
	require.Len(t, entrants, 1)
	assert.Equal(t, 1, entrants[0].StartNumber)
}

func TestEntrantLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{"Missing start number column", "name,earnings\nBlixten,100\n", ErrInvalidData},
		{"No valid rows", "name,start_number\n,1\nBlixten,0\n", models.ErrEmptyRace},
		{"Empty input", "", ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntrantLoader(nil).Load(strings.NewReader(tt.csv), "bad.csv")
			assert.ErrorIs(t, err, tt.wantErr)

			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
		})
	}
}

func TestEntrantLoaderFileNotFound(t *testing.T) {
	_, err := NewEntrantLoader(nil).LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMarketData(t *testing.T) {
	input := `{"V75-3": {"horses": [{"number": 1, "percentage": 35.5}, {"number": "2", "percentage": "12,5%"}]}}`
	market, err := LoadMarketData(strings.NewReader(input), "market.json")
	require.NoError(t, err)

	horses := market["V75-3"].Horses
	require.Len(t, horses, 2)
	assert.Equal(t, 2, horses[1].Number)
	assert.Equal(t, 12.5, horses[1].Percentage)
}

func TestLoadMarketDataInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Malformed JSON", `{"V75-1": `},
		{"Percentage above 100", `{"V75-1": {"horses": [{"number": 1, "percentage": 140}]}}`},
		{"Non-positive number", `{"V75-1": {"horses": [{"number": 0, "percentage": 10}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMarketData(strings.NewReader(tt.input), "market.json")
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestLoadTrackStatistics(t *testing.T) {
	input := `{"spårstatistik": {"Axevalla": {"autostart": {"hög": [
		{"spår": 1, "segerprocent": {"värde": "14%"}},
		{"spår": "2", "segerprocent": {"värde": 9.5}},
		{"spår": "okänt", "segerprocent": {"värde": "3%"}}
	]}}}}`

	stats, err := LoadTrackStatistics(strings.NewReader(input), "track.json")
	require.NoError(t, err)

	gates := stats.Gates("Axevalla", "autostart", "hög")
	require.Len(t, gates, 2)
	assert.Equal(t, 1, gates[0].Gate)
	assert.Equal(t, "14%", gates[0].WinRate)
	assert.Equal(t, 2, gates[1].Gate)
	assert.Equal(t, "9.5", gates[1].WinRate)
}

func TestLoadTrackStatisticsIgnoresSiblingKeys(t *testing.T) {
	input := `{
		"bana": "Axevalla",
		"spårstatistik": {
			"källa": "travsport",
			"Axevalla": {
				"uppdaterad": "2024-01-01",
				"autostart": {
					"antal_lopp": 412,
					"hög": [{"spår": 1, "segerprocent": {"värde": "14%"}}, "okänd rad"]
				}
			}
		}
	}`

	stats, err := LoadTrackStatistics(strings.NewReader(input), "track.json")
	require.NoError(t, err)

	gates := stats.Gates("Axevalla", "autostart", "hög")
	require.Len(t, gates, 1)
	assert.Equal(t, 1, gates[0].Gate)
	assert.Equal(t, "14%", gates[0].WinRate)
	assert.Empty(t, stats.Gates("källa", "autostart", "hög"))
}

func TestLoadTrackStatisticsWithoutKey(t *testing.T) {
	stats, err := LoadTrackStatistics(strings.NewReader(`{"other": {}}`), "track.json")
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestLoadTrackStatisticsNotAnObject(t *testing.T) {
	_, err := LoadTrackStatistics(strings.NewReader(`["Axevalla"]`), "track.json")
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestRaceNumberFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"V75 Lopp 3.csv", 3},
		{"data/csv/lopp7_axevalla.csv", 7},
		{"LOPP  12.csv", 12},
		{"startlista.csv", DefaultRaceNumber},
		{"Lopp 0.csv", DefaultRaceNumber},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, RaceNumberFromFilename(tt.path))
		})
	}
}

func TestCatalog(t *testing.T) {
	root := t.TempDir()
	catalog := Catalog{
		CSVDir:        filepath.Join(root, "csv"),
		JSONDir:       filepath.Join(root, "json"),
		MarketPattern: "spelprocent",
		TrackName:     "Axevalla",
	}

	csvFiles, err := catalog.ListCSV()
	require.NoError(t, err)
	assert.Empty(t, csvFiles)
	_, err = os.Stat(catalog.CSVDir)
	assert.NoError(t, err, "csv directory should be created")

	writeFile(t, catalog.CSVDir, "Lopp 2.CSV", "")
	writeFile(t, catalog.CSVDir, "Lopp 1.csv", "")
	writeFile(t, catalog.CSVDir, "notes.txt", "")
	require.NoError(t, os.MkdirAll(catalog.JSONDir, 0o755))
	writeFile(t, catalog.JSONDir, "v75_spelprocent.json", "{}")
	writeFile(t, catalog.JSONDir, "axevalla_spår.json", "{}")

	csvFiles, err = catalog.ListCSV()
	require.NoError(t, err)
	assert.Equal(t, []string{"Lopp 1.csv", "Lopp 2.CSV"}, csvFiles)

	market, err := catalog.MarketFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"v75_spelprocent.json"}, market)

	track, err := catalog.TrackFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"axevalla_spår.json"}, track)
}

func TestSelectorChoose(t *testing.T) {
	options := []string{"a.csv", "b.csv"}

	tests := []struct {
		name     string
		input    string
		options  []string
		optional bool
		want     string
		wantErr  error
	}{
		{"Valid choice", "2\n", options, false, "b.csv", nil},
		{"Out of range", "3\n", options, false, "", ErrInvalidChoice},
		{"Not a number", "abc\n", options, false, "", ErrInvalidChoice},
		{"Optional skip", "\n", options, true, "", nil},
		{"No options", "", nil, false, "", ErrNoFiles},
		{"No optional options", "", nil, true, "", nil},
		{"Answer without newline", "1", options, false, "a.csv", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got, err := NewSelector(strings.NewReader(tt.input), &out).Choose("files", tt.options, tt.optional)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Short yes", "y\n", true},
		{"Long yes", "yes\n", true},
		{"Swedish short yes", "j\n", true},
		{"Swedish long yes", "ja\n", true},
		{"Upper case with padding", "  JA \n", true},
		{"No", "n\n", false},
		{"Other word", "kanske\n", false},
		{"Blank line", "\n", false},
		{"End of input", "", false},
		{"Yes without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got := NewSelector(strings.NewReader(tt.input), &out).Confirm("Analyse another race?")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Analyse another race? (y/n): ")
		})
	}
}

func TestSelectorConfirmSharesReader(t *testing.T) {
	var out strings.Builder
	selector := NewSelector(strings.NewReader("1\nj\n2\nn\n"), &out)
	options := []string{"Lopp 1.csv", "Lopp 2.csv"}

	first, err := selector.Choose("CSV files", options, false)
	require.NoError(t, err)
	assert.Equal(t, "Lopp 1.csv", first)
	require.True(t, selector.Confirm("Analyse another race?"))

	second, err := selector.Choose("CSV files", options, false)
	require.NoError(t, err)
	assert.Equal(t, "Lopp 2.csv", second)
	assert.False(t, selector.Confirm("Analyse another race?"))
}

func TestLoaderLoadRace(t *testing.T) {
	dir := t.TempDir()
	racePath := writeFile(t, dir, "V75 Lopp 3.csv", raceCSV)
	marketPath := writeFile(t, dir, "spelprocent.json", `{"V75-3": {"horses": [{"number": 1, "percentage": 50}]}}`)
	trackPath := writeFile(t, dir, "axevalla.json", `{"spårstatistik": {"Axevalla": {"autostart": {"hög": [{"spår": 1, "segerprocent": {"värde": "14%"}}]}}}}`)

	input, err := NewLoader("V75", nil).LoadRace(RaceFiles{RaceCSV: racePath, MarketJSON: marketPath, TrackJSON: trackPath})
	require.NoError(t, err)

	assert.Equal(t, 3, input.Race.Number)
	assert.Equal(t, "V75-3", input.Race.MarketKey())
	assert.Len(t, input.Market["V75-3"].Horses, 1)
	assert.Len(t, input.Race.TrackStatistics.Gates("Axevalla", "autostart", "hög"), 1)
}

func TestLoaderOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	racePath := writeFile(t, dir, "Lopp 1.csv", raceCSV)
	badTrack := writeFile(t, dir, "track.json", "not json")

	input, err := NewLoader("V86", nil).LoadRace(RaceFiles{RaceCSV: racePath, TrackJSON: badTrack})
	require.NoError(t, err)

	assert.Nil(t, input.Market)
	assert.Nil(t, input.Race.TrackStatistics, "unreadable track file is ignored")
	assert.Equal(t, "V86-1", input.Race.MarketKey())
}

func TestLoaderDuplicateStartNumbers(t *testing.T) {
	dir := t.TempDir()
	racePath := writeFile(t, dir, "Lopp 1.csv", "name,start_number\nA,1\nB,1\n")

	_, err := NewLoader("", nil).LoadRace(RaceFiles{RaceCSV: racePath})
	assert.ErrorIs(t, err, models.ErrDuplicateStartNumber)
}
