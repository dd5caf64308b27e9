package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"university-browser-backend/internal/model"
	"university-browser-backend/internal/parse"
)

// Column names expected in the source table.
const (
	ColName              = "University Name"
	ColCity              = "City"
	ColProvince          = "Province"
	ColSector            = "Sector"
	ColCharteredBy       = "Chartered By"
	ColWebsite           = "Website"
	ColDistanceEducation = "Distance Education"
	ColEstablishedSince  = "Established Since"
)

// RequiredColumns lists every column the loader needs.
var RequiredColumns = []string{
	ColName, ColCity, ColProvince, ColSector,
	ColCharteredBy, ColWebsite, ColDistanceEducation, ColEstablishedSince,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

const utf8BOM = "\ufeff"

// ReadCSV parses the university table. Cells are trimmed, unparseable dates become nil,
// and rows keep their 1-based position in the file (header excluded).
func ReadCSV(r io.Reader, dates *parse.DateParser) ([]model.University, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var records []model.University
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}
		if blank(row) {
			line--
			continue
		}

		cell := func(col string) string {
			if i := idx[col]; i < len(row) {
				return row[i]
			}
			return ""
		}

		raw := parse.Text(cell(ColEstablishedSince))
		records = append(records, model.University{
			Row:               line,
			Name:              parse.Text(cell(ColName)),
			City:              parse.Text(cell(ColCity)),
			Province:          parse.Text(cell(ColProvince)),
			Sector:            parse.Sector(cell(ColSector)),
			CharteredBy:       parse.Text(cell(ColCharteredBy)),
			Website:           parse.Text(cell(ColWebsite)),
			DistanceEducation: parse.YesNo(cell(ColDistanceEducation)),
			EstablishedSince:  dates.Established(raw),
			EstablishedRaw:    raw,
		})
	}
	return records, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
