package progress

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://progress-record.json"

// recordSchema describes one stored or transmitted progress record.
const recordSchema = `{
	"type": "object",
	"required": ["user_id", "lesson_id", "completed"],
	"properties": {
		"user_id":      {"type": "string", "minLength": 1},
		"lesson_id":    {"type": "integer", "minimum": 1},
		"completed":    {"type": "boolean"},
		"completed_at": {"type": ["string", "null"], "format": "date-time"}
	},
	"if":   {"properties": {"completed": {"const": true}}},
	"then": {"required": ["completed_at"], "properties": {"completed_at": {"type": "string"}}}
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func recordValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(recordSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse record schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(recordSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(recordSchemaURL)
	})
	return compiled, compileErr
}

// ValidateRecordJSON checks one JSON-encoded record against the record schema.
func ValidateRecordJSON(raw []byte) error {
	schema, err := recordValidator()
	if err != nil {
		return err
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// DecodeRecords parses a JSON array of records. Entries that fail schema
// validation are skipped and counted in dropped. An error is returned only
// when data is not a JSON array.
func DecodeRecords(data []byte) (records []Record, dropped int, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, fmt.Errorf("decode record list: %w", err)
	}

	records = make([]Record, 0, len(raws))
	for _, raw := range raws {
		if err := ValidateRecordJSON(raw); err != nil {
			dropped++
			continue
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			dropped++
			continue
		}
		if !r.Completed {
			r.CompletedAt = nil
		}
		records = append(records, r)
	}
	return records, dropped, nil
}
