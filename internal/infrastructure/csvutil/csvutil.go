// Package csvutil writes feed tables to disk and normalizes the result
// into the exact shape the downstream importer expects.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// WriteFile writes a header plus records to path as CSV. Fields are
// quoted only when they need it.
func WriteFile(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvutil: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csvutil: write header: %w", err)
	}
	for i, record := range records {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("csvutil: write record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvutil: flush: %w", err)
	}
	return f.Close()
}

// Normalize rewrites the CSV at path in place: the content is forced to
// valid UTF-8, escaped empty-string markers are collapsed back to a
// bare "" and blank lines are dropped.
//
// A field holding the literal two characters `"` `"` gets escaped by
// the CSV writer into six quote characters; the importer expects the
// bare two-character form, so the escape is undone here.
func Normalize(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("csvutil: read %s: %w", path, err)
	}

	text := decode(raw)
	text = strings.ReplaceAll(text, `""""""`, `""`)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimRight(line, "\r") == "" {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n") + "\n"

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("csvutil: write %s: %w", path, err)
	}
	return nil
}

// decode returns raw as a UTF-8 string, re-decoding legacy encodings
// when the bytes are not already valid UTF-8.
func decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
