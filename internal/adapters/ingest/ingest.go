// Package ingest turns uploaded file content into raw tables. CSV is the one
// supported encoding; headers come from the first row and ragged data rows
// are squared off to the header width instead of failing the upload.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/okian/formline/internal/domain/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses one uploaded file into a RawTable. The header row is
// mandatory; cell values are kept verbatim apart from header trimming.
func Decode(filename string, content []byte) (model.RawTable, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return model.RawTable{}, fmt.Errorf("%q: %w", filename, ErrEmptyFile)
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%q: %w", filename, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := model.RawTable{Filename: filename, Columns: columns}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.RawTable{}, fmt.Errorf("%q: %w", filename, err)
		}
		table.Rows = append(table.Rows, squareOff(record, len(columns)))
	}
	return table, nil
}

// DecodeAll parses a set of uploaded files in order, failing fast on the
// first undecodable one.
func DecodeAll(files []File) ([]model.RawTable, error) {
	tables := make([]model.RawTable, 0, len(files))
	for _, f := range files {
		table, err := Decode(f.Name, f.Content)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// File is one uploaded (filename, bytes) pair.
type File struct {
	Name    string
	Content []byte
}

func squareOff(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
