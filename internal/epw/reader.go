package epw

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrFormat reports an EPW file that does not follow the expected layout.
var ErrFormat = errors.New("epw format error")

// Read parses an EPW document.
//
// Every record up to the first one whose leading field is all ASCII digits
// is a header block; that record and all following ones are data rows. A
// header name seen twice keeps its first position and takes the later fields.
func Read(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	doc := &Document{}
	inData := false
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if len(rec) == 0 {
			continue
		}
		line, _ := cr.FieldPos(0)

		if !inData && !isDigits(rec[0]) {
			doc.SetHeader(rec[0], rec[1:])
			continue
		}
		inData = true

		row, err := ParseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// ReadFile parses the EPW file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
