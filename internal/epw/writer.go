package epw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const lineEnding = "\r\n"

// Write serializes doc: header blocks in order, then one line per row.
// Fields containing a carriage return are rejected with ErrFormat since CSV
// readers fold CRLF inside quoted fields to LF.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	for _, h := range doc.Headers {
		if err := writeRecord(bw, append([]string{h.Name}, h.Fields...)); err != nil {
			return fmt.Errorf("write header %s: %w", h.Name, err)
		}
	}
	for i, r := range doc.Rows {
		if err := writeRecord(bw, r.Fields()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// WriteFile writes doc to path atomically: the data goes to a temporary file
// in the same directory which is renamed over path once complete.
func WriteFile(path string, doc *Document) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, doc); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if strings.ContainsRune(f, '\r') {
			return fmt.Errorf("%w: field %d contains a carriage return", ErrFormat, i+1)
		}
	}
	// A lone empty field would otherwise be a blank line, which readers skip.
	if len(fields) == 1 && fields[0] == "" {
		_, err := w.WriteString(`""` + lineEnding)
		return err
	}
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quoteField(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString(lineEnding)
	return err
}

// quoteField quotes only fields that would otherwise not survive a CSV read.
func quoteField(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
