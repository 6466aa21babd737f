package gazetteer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// Column names of the GeoNames-style TSV export we consume. The file carries
// more columns than these; the rest are ignored.
const (
	colName       = "ascii"
	colRegion     = "admin1"
	colCountry    = "country"
	colLat        = "lat"
	colLon        = "long"
	colPopulation = "population"
)

// canadianRegions maps the numeric admin1 codes GeoNames assigns to Canadian
// provinces and territories onto their two-letter codes. The file carries
// them zero-padded ("08" is Ontario), so lookups go through a numeric parse.
// US states already arrive as letters and pass through untouched.
var canadianRegions = map[int]string{
	1:  "AB",
	2:  "BC",
	3:  "MB",
	4:  "NB",
	5:  "NL",
	7:  "NS",
	8:  "ON",
	9:  "PE",
	10: "QC",
	11: "SK",
	12: "YT",
	13: "NT",
	14: "NU",
}

// ParseTSV reads a tab-separated gazetteer export with a header row and
// returns the usable records. Malformed rows are logged and skipped rather
// than failing the whole load; a missing required column is an error.
func ParseTSV(r io.Reader) ([]*Place, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	// GeoNames exports carry no quoting; stray quotes are literal characters.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("gazetteer: reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range []string{colName, colRegion, colCountry, colLat, colLon, colPopulation} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("gazetteer: header missing column %q", name)
		}
	}

	var places []*Place
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warnf("Skipping unreadable row %d: %v", line, err)
			continue
		}
		place, err := parseRow(record, cols)
		if err != nil {
			log.Warnf("Skipping row %d: %v", line, err)
			continue
		}
		places = append(places, place)
	}
	log.Debugf("Parsed %d gazetteer records", len(places))
	return places, nil
}

// ParseTSVFile opens path and parses it with ParseTSV.
func ParseTSVFile(path string) ([]*Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gazetteer: opening %s: %w", path, err)
	}
	defer f.Close()
	return ParseTSV(f)
}

func parseRow(record []string, cols map[string]int) (*Place, error) {
	name, err := field(record, cols[colName])
	if err != nil {
		return nil, err
	}
	region, err := field(record, cols[colRegion])
	if err != nil {
		return nil, err
	}
	country, err := field(record, cols[colCountry])
	if err != nil {
		return nil, err
	}
	latField, err := field(record, cols[colLat])
	if err != nil {
		return nil, err
	}
	lonField, err := field(record, cols[colLon])
	if err != nil {
		return nil, err
	}
	popField, err := field(record, cols[colPopulation])
	if err != nil {
		return nil, err
	}

	lat, err := strconv.ParseFloat(latField, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", latField, err)
	}
	lon, err := strconv.ParseFloat(lonField, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", lonField, err)
	}
	pop, err := strconv.ParseInt(popField, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad population %q: %w", popField, err)
	}

	if code, err := strconv.Atoi(region); err == nil {
		if expanded, ok := canadianRegions[code]; ok {
			region = expanded
		}
	}
	switch country {
	case "US":
		country = "USA"
	case "CA":
		country = "Canada"
	}

	return &Place{
		Name:       name,
		Region:     region,
		Country:    country,
		Lat:        lat,
		Lon:        lon,
		Population: pop,
	}, nil
}

func field(record []string, idx int) (string, error) {
	if idx >= len(record) {
		return "", fmt.Errorf("row has %d fields, column %d missing", len(record), idx)
	}
	return record[idx], nil
}
