package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// Read parses comma-separated text with a header row into a Table.
// Malformed input (unbalanced quotes, rows wider than the header) is an error.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	columns := headerNames(header)

	var rows []Record
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(fields) > len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformed, line, len(fields), len(columns))
		}
		rec := make(Record, len(columns))
		for i, c := range columns {
			if i < len(fields) {
				rec[c] = Parse(fields[i])
			} else {
				rec[c] = Value{}
			}
		}
		rows = append(rows, rec)
	}
	return New(columns, rows), nil
}

// headerNames strips the BOM, names blank headers and disambiguates
// duplicates as name, name.1, name.2, ...
func headerNames(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// Load is Read that never fails: any error yields an empty table.
func Load(r io.Reader) *Table {
	t, err := Read(r)
	if err != nil {
		return Empty()
	}
	return t
}

// LoadFile reads the CSV file at path; unreadable or malformed files yield
// an empty table.
func LoadFile(path string) *Table {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}
	return Load(bytes.NewReader(data))
}

// Export writes t as CSV: a header row, then one line per record with
// missing cells as empty fields. Fields are quoted on demand.
func Export(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	fields := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, c := range t.columns {
			fields[i] = r[c].String()
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}
