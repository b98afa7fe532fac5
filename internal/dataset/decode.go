package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/wonny/roster/internal/contracts"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding names reported by Decode
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// StructuralError reports a CSV that cannot be read as a table
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed csv at line %d: %s", e.Line, e.Msg)
	}
	return "malformed csv: " + e.Msg
}

// ToUTF8 strips a UTF-8 BOM and returns valid UTF-8 text.
// Bytes that are not valid UTF-8 are decoded as Windows-1252 (a Latin-1 superset).
func ToUTF8(data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, EncodingUTF8, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return out, EncodingWindows1252, nil
}

// Decode parses CSV bytes into a RecordSet.
// The first record is the header. Short rows are padded with empty cells;
// a row wider than the header is a structural fault.
func Decode(data []byte) (*contracts.RecordSet, string, error) {
	text, enc, err := ToUTF8(data)
	if err != nil {
		return nil, "", err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	set := &contracts.RecordSet{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, enc, &StructuralError{Line: perr.Line, Msg: perr.Err.Error()}
			}
			return nil, enc, fmt.Errorf("read csv: %w", err)
		}

		if set.Columns == nil {
			set.Columns = record
			continue
		}

		if len(record) > len(set.Columns) {
			line, _ := reader.FieldPos(0)
			return nil, enc, &StructuralError{
				Line: line,
				Msg:  fmt.Sprintf("row has %d fields, header has %d", len(record), len(set.Columns)),
			}
		}
		if len(record) < len(set.Columns) {
			padded := make([]string, len(set.Columns))
			copy(padded, record)
			record = padded
		}
		set.Rows = append(set.Rows, record)
	}

	return set, enc, nil
}
