package sheet

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"
	"strings"

	bcerrors "github.com/labmed/barcoder/pkg/errors"
)

// BarcodeColumn is the required CSV column holding the code.
const BarcodeColumn = "barcode"

// ReadRecords parses CSV with a header row. The "barcode" column becomes the
// record code; every other column becomes a field. Rows with an empty
// barcode are kept as placeholders.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, bcerrors.New(bcerrors.ErrCodeInvalidInput, "input is empty")
	}
	if err != nil {
		return nil, bcerrors.Wrap(bcerrors.ErrCodeInvalidInput, err, "reading header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	col := slices.Index(header, BarcodeColumn)
	if col < 0 {
		return nil, bcerrors.New(bcerrors.ErrCodeInvalidInput, "%q is a required field in the input file", BarcodeColumn)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, bcerrors.Wrap(bcerrors.ErrCodeInvalidInput, err, "reading row %d", len(records)+2)
		}

		rec := Record{Fields: make(map[string]string, len(header)-1)}
		for i, v := range row {
			if i >= len(header) {
				break
			}
			v = strings.TrimSpace(v)
			if i == col {
				rec.Code = v
				continue
			}
			if v != "" {
				rec.Fields[header[i]] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
