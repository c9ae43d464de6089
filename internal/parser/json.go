package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/insightx/insightx-cli/internal/dataset"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (jsonParser) Parse(content []byte) ([]dataset.DataRow, []string, error) {
	return ParseJSON(content)
}

// ParseJSON parses an array of flat objects, one object per row. Column
// order is taken from the first object's key order in the source text.
// Nested objects and arrays are not flattened; they are kept as their
// compact JSON text so type detection classifies them as strings.
func ParseJSON(data []byte) ([]dataset.DataRow, []string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("parse json: %w", err)
	}
	var columns []string
	rows := make([]dataset.DataRow, 0, len(elems))
	for i, el := range elems {
		row, keys, err := decodeObject(el)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if columns == nil {
			columns = keys
		}
		rows = append(rows, row)
	}
	return rows, columns, nil
}

// decodeObject walks one object token by token to preserve key order.
func decodeObject(raw json.RawMessage) (dataset.DataRow, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("expected an object")
	}
	row := dataset.DataRow{}
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, errors.New("expected an object key")
		}
		var vraw json.RawMessage
		if err := dec.Decode(&vraw); err != nil {
			return nil, nil, err
		}
		row[key] = coerceJSONValue(vraw)
		keys = append(keys, key)
	}
	return row, keys, nil
}

func coerceJSONValue(raw json.RawMessage) dataset.CellValue {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case float64:
		return x
	case string:
		return x
	default:
		return string(raw)
	}
}
