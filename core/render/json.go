// Package render — JSON serializer.
// Persists the record sequence as the interchange format: an ordered array of
// record objects, one-to-one with the Record fields, array order = extraction
// order. Text stays full UTF-8 here; only the PDF degrades encoding.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/quizbook/core"
)

// JSONSerializer produces the interchange JSON for the record sequence.
type JSONSerializer struct{}

// NewJSONSerializer creates a JSONSerializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize marshals the records as an indented JSON array.
func (s *JSONSerializer) Serialize(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling records: %w", err)
	}
	return data, nil
}

// Deserialize parses interchange JSON back into a record sequence.
func Deserialize(data []byte) ([]core.Record, error) {
	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling records: %w", err)
	}
	return records, nil
}
