// Package export renders an extracted corpus as JSON, CSV or XLSX. The JSON
// form is the nested record structure; CSV and XLSX use the flat projection
// with nested categories embedded as JSON cells.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ijm11/becas-extractor/pkg/record"
)

// ProgramsCellLimit bounds the free-text programs column in spreadsheet
// projections. The nested JSON form is never truncated.
const ProgramsCellLimit = 500

// Options control the spreadsheet projections.
type Options struct {
	// TruncatePrograms shortens the programs cell to ProgramsCellLimit
	// characters with a trailing ellipsis.
	TruncatePrograms bool
}

// JSON renders the corpus as an indented JSON array in corpus order.
func JSON(corpus record.Corpus) ([]byte, error) {
	data, err := json.MarshalIndent(corpus, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding corpus: %w", err)
	}
	return data, nil
}

// CSV renders the flat projection with a header row.
func CSV(corpus record.Corpus, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(record.FlatColumns()); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range corpus {
		flat, err := flattenRecord(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("flattening %s: %w", rec.SourceID, err)
		}
		if err := w.Write(flat.Columns()); err != nil {
			return nil, fmt.Errorf("writing row for %s: %w", rec.SourceID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

const xlsxSheet = "Becas"

// XLSX renders the flat projection as a single-sheet workbook.
func XLSX(corpus record.Corpus, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for col, header := range record.FlatColumns() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for rowIdx, rec := range corpus {
		flat, err := flattenRecord(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("flattening %s: %w", rec.SourceID, err)
		}
		for col, value := range flat.Columns() {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing row for %s: %w", rec.SourceID, err)
			}
		}
	}

	// Scalar columns stay narrow, embedded JSON gets room.
	_ = f.SetColWidth(xlsxSheet, "A", "B", 22)
	_ = f.SetColWidth(xlsxSheet, "C", "M", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the corpus in the format implied by the path extension
// (.json, .csv or .xlsx) and writes it.
func WriteFile(path string, corpus record.Corpus, opts Options) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = JSON(corpus)
	case ".csv":
		data, err = CSV(corpus, opts)
	case ".xlsx":
		data, err = XLSX(corpus, opts)
	default:
		return fmt.Errorf("unsupported export format: %s", path)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// flattenRecord projects one record, applying spreadsheet options before the
// nested categories are embedded. Truncation counts characters, not bytes.
func flattenRecord(rec *record.Record, opts Options) (*record.FlatRecord, error) {
	if opts.TruncatePrograms && rec.Programas != nil {
		if runes := []rune(rec.Programas.Texto); len(runes) > ProgramsCellLimit {
			trimmed := *rec
			programas := *rec.Programas
			programas.Texto = string(runes[:ProgramsCellLimit]) + "..."
			trimmed.Programas = &programas
			rec = &trimmed
		}
	}
	return rec.Flatten()
}
