package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/donmerendolo/exportify-cli/internal/shared"
)

// FileBaseName converts a playlist name into a safe base filename:
// alphanumerics, spaces, hyphens, and underscores survive, everything else
// becomes an underscore, then spaces collapse to underscores and the result
// is lowercased.
func FileBaseName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	safe := strings.TrimSpace(b.String())
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = strings.ToLower(safe)
	if safe == "" {
		safe = "playlist"
	}
	return safe
}

// WriteTargetFiles serializes the rows to one file per requested format under
// dir, returning the written paths. Each file is written to a temporary file
// in the same directory and renamed into place, so a failure mid-write never
// leaves a partial export behind.
func WriteTargetFiles(rows []Row, fields FieldSet, dir, base string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+format)

		var data []byte
		var err error
		switch format {
		case "csv":
			data, err = encodeCSV(fields, rows)
		case "json":
			data, err = encodeJSON(fields, rows)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return files, err
		}

		if err := writeAtomic(path, data); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	return files, nil
}

// encodeCSV renders rows with a header line of canonical field names.
// Embedded separators, quotes, and newlines get standard CSV quoting;
// numeric fields are plain decimal text and lists join with ", ".
func encodeCSV(fields FieldSet, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(fields.Names()); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEncoding, err)
	}

	record := make([]string, len(fields))
	for _, row := range rows {
		for i, v := range row {
			s := valueString(v)
			if !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
				return nil, fmt.Errorf("%w: field %q contains bytes CSV cannot carry", shared.ErrEncoding, fields[i].Name)
			}
			record[i] = s
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrEncoding, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// encodeJSON renders rows as an array of objects, keys in canonical column
// order. Objects are hand-assembled because encoding/json does not preserve
// map key order.
func encodeJSON(fields FieldSet, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[")

	for i, row := range rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    {")
		for j, f := range fields {
			if j > 0 {
				buf.WriteString(",")
			}
			key, err := json.Marshal(f.Name)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrEncoding, err)
			}
			value, err := json.Marshal(row[j])
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", shared.ErrEncoding, f.Name, err)
			}
			buf.WriteString("\n        ")
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(value)
		}
		buf.WriteString("\n    }")
	}

	buf.WriteString("\n]\n")
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}
	return nil
}
