package soil

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/fetcher"
	"github.com/sells-group/agronomy-cli/internal/model"
)

// Cell values treated as missing.
var missingValues = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// Load reads a soil dataset from a local path or URL. Files ending in .xlsx
// are read as workbooks (first sheet, header row first); everything else is
// parsed as CSV. f may be nil for local paths.
func Load(ctx context.Context, f fetcher.Fetcher, location string) (*Dataset, error) {
	rc, err := fetcher.Open(ctx, f, location)
	if err != nil {
		return nil, eris.Wrap(err, "soil: open dataset")
	}
	defer rc.Close() //nolint:errcheck

	var rows []model.SoilReading
	if isWorkbook(location) {
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, eris.Wrap(err, "soil: read workbook")
		}
		rows, err = DecodeXLSX(data)
		if err != nil {
			return nil, err
		}
	} else {
		rows, err = DecodeCSV(rc)
		if err != nil {
			return nil, err
		}
	}

	zap.L().Info("soil: dataset loaded",
		zap.String("source", location),
		zap.Int("rows", len(rows)),
	)
	return NewDataset(rows), nil
}

func isWorkbook(location string) bool {
	p := location
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.EqualFold(path.Ext(p), ".xlsx")
}

// DecodeCSV parses soil rows from CSV with a header line. Unknown columns are
// ignored and missing numeric cells decode as nil.
func DecodeCSV(r io.Reader) ([]model.SoilReading, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return decode(&rowNormalizer{r: cr})
}

// DecodeXLSX parses soil rows from the first sheet of a workbook.
func DecodeXLSX(data []byte) ([]model.SoilReading, error) {
	cells, err := fetcher.ParseXLSX(data, fetcher.XLSXOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "soil: parse workbook")
	}
	return decode(&rowNormalizer{r: &sliceReader{rows: cells}})
}

func decode(r csvutil.Reader) ([]model.SoilReading, error) {
	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "soil: read header")
	}
	var rows []model.SoilReading
	for {
		var row model.SoilReading
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "soil: decode row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sliceReader feeds spreadsheet rows to csvutil. Short rows are padded to
// the header width.
type sliceReader struct {
	rows  [][]string
	width int
	next  int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	if s.next == 0 {
		s.width = len(row)
	}
	s.next++
	if len(row) < s.width {
		padded := make([]string, s.width)
		copy(padded, row)
		row = padded
	}
	return row, nil
}

// rowNormalizer lower-cases and trims the header row so column names match
// regardless of spreadsheet styling. Data cells are trimmed and missing-value
// markers become empty, which csvutil decodes as nil.
type rowNormalizer struct {
	r    csvutil.Reader
	seen bool
}

func (n *rowNormalizer) Read() ([]string, error) {
	row, err := n.r.Read()
	if err != nil {
		return row, err
	}
	out := make([]string, len(row))
	if !n.seen {
		n.seen = true
		for i, c := range row {
			out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
		}
		return out, nil
	}
	for i, c := range row {
		c = strings.TrimSpace(c)
		if missingValues[strings.ToLower(c)] {
			c = ""
		}
		out[i] = c
	}
	return out, nil
}
