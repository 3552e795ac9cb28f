// Package leadfile reads and writes lead tables.
package leadfile

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/model"
)

const bom = "\ufeff"

// ReadTSV reads a tab-delimited UTF-8 file with a header row. Short rows
// are padded with empty values and cells beyond the header are dropped.
func ReadTSV(path string) ([]model.Lead, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "leadfile: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return DecodeTSV(f)
}

// DecodeTSV parses a tab-delimited table from r.
func DecodeTSV(r io.Reader) ([]model.Lead, []string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var (
		header []string
		leads  []model.Lead
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "leadfile: read row")
		}

		if header == nil {
			header = make([]string, len(record))
			for i, col := range record {
				header[i] = strings.TrimSpace(col)
			}
			header[0] = strings.TrimPrefix(header[0], bom)
			continue
		}

		lead := make(model.Lead, len(header))
		for i, col := range header {
			if i < len(record) {
				lead[col] = record[i]
			} else {
				lead[col] = ""
			}
		}
		leads = append(leads, lead)
	}
	return leads, header, nil
}

// WriteTSV writes header and one row per enriched lead to path.
func WriteTSV(path string, header []string, rows []model.EnrichedLead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "leadfile: create %s", path)
	}

	if err := EncodeTSV(f, header, rows); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "leadfile: close %s", path)
}

// EncodeTSV writes a tab-delimited table to w.
func EncodeTSV(w io.Writer, header []string, rows []model.EnrichedLead) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(header); err != nil {
		return eris.Wrap(err, "leadfile: write header")
	}
	for _, row := range rows {
		if err := writer.Write(row.Record(header)); err != nil {
			return eris.Wrap(err, "leadfile: write row")
		}
	}
	writer.Flush()
	return eris.Wrap(writer.Error(), "leadfile: flush")
}

// DefaultOutputPath returns "<stem>_enriched<ext>" next to input.
func DefaultOutputPath(input string) string {
	return withSuffix(input, "_enriched")
}

// ReviewPath returns "<stem>_review_needed<ext>" next to output.
func ReviewPath(output string) string {
	return withSuffix(output, "_review_needed")
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
