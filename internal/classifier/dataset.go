package classifier

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnKind is the value type of a dataset column
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindFloat
	KindBool
)

// Column describes one column of a tab-separated dataset
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is the ordered list of columns a loader binds, by position
type Schema []Column

// Row holds the validated values of one record, one entry per schema column
type Row []string

// Text returns the raw value of column i
func (r Row) Text(i int) string {
	return r[i]
}

// Float returns column i parsed as a float. LoadTable has already validated it.
func (r Row) Float(i int) float64 {
	v, _ := strconv.ParseFloat(r[i], 64)
	return v
}

// Bool returns column i parsed as a bool. LoadTable has already validated it.
func (r Row) Bool(i int) bool {
	v, _ := strconv.ParseBool(r[i])
	return v
}

// LabeledMessage is one training record
type LabeledMessage struct {
	RawLabel string
	Text     string
}

// LabeledMessageSchema binds column 0 to the raw label and column 1 to the message text
var LabeledMessageSchema = Schema{
	{Name: "RawLabel", Kind: KindText},
	{Name: "Message", Kind: KindText},
}

const maxLineSize = 16 * 1024 * 1024

// LoadTable reads tab-separated records bound to schema. Blank lines are skipped,
// columns past the schema are ignored, and any record with fewer columns fails.
func LoadTable(r io.Reader, schema Schema, hasHeader bool) ([]Row, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: empty schema", ErrTraining)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows []Row
	lineNo := 0
	headerSeen := !hasHeader
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < len(schema) {
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d",
				ErrTraining, lineNo, len(schema), len(fields))
		}

		if !headerSeen {
			headerSeen = true
			continue
		}

		row := Row(fields[:len(schema)])
		for i, col := range schema {
			if err := validateValue(col, row[i]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrTraining, lineNo, err)
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read dataset: %v", ErrTraining, err)
	}

	if !headerSeen {
		return nil, fmt.Errorf("%w: dataset is empty", ErrTraining)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset has no records", ErrTraining)
	}

	return rows, nil
}

func validateValue(col Column, value string) error {
	switch col.Kind {
	case KindFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("column %s: invalid number %q", col.Name, value)
		}
	case KindBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("column %s: invalid boolean %q", col.Name, value)
		}
	}
	return nil
}

// ReadDataset loads labeled messages from a tab-separated stream with a header row
func ReadDataset(r io.Reader) ([]LabeledMessage, error) {
	rows, err := LoadTable(r, LabeledMessageSchema, true)
	if err != nil {
		return nil, err
	}

	messages := make([]LabeledMessage, len(rows))
	for i, row := range rows {
		messages[i] = LabeledMessage{
			RawLabel: row.Text(0),
			Text:     row.Text(1),
		}
	}
	return messages, nil
}

// LoadDataset loads labeled messages from a tab-separated file with a header row
func LoadDataset(path string) ([]LabeledMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open dataset: %v", ErrTraining, err)
	}
	defer f.Close()

	return ReadDataset(f)
}
