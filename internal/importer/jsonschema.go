package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const planSchemaURL = "gantry://plan.schema.json"

const planSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project", "activities"],
  "additionalProperties": false,
  "properties": {
    "project": {
      "type": "object",
      "required": ["short_id", "name"],
      "additionalProperties": false,
      "properties": {
        "short_id": {"type": "string"},
        "name": {"type": "string", "minLength": 1},
        "description": {"type": "string"}
      }
    },
    "activities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "start_date"],
        "additionalProperties": false,
        "properties": {
          "ref": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "owner": {"type": "string"},
          "status": {"enum": ["pending", "in_progress", "completed"]},
          "start_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
          "end_date": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
        }
      }
    },
    "dependencies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source", "target"],
        "additionalProperties": false,
        "properties": {
          "source": {"type": "string", "minLength": 1},
          "target": {"type": "string", "minLength": 1},
          "type": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func planJSONSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(planSchemaURL, strings.NewReader(planSchema)); err != nil {
			compileErr = fmt.Errorf("loading plan schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(planSchemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateStructure checks raw JSON against the plan schema and returns one
// error per violated leaf constraint, prefixed with its JSON path.
func ValidateStructure(data []byte) []error {
	schema, err := planJSONSchema()
	if err != nil {
		return []error{err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []error{fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return []error{err}
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *[]error, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		path := jsonPointerToPath(ve.InstanceLocation)
		if path == "" {
			*errs = append(*errs, fmt.Errorf("%s", ve.Message))
		} else {
			*errs = append(*errs, fmt.Errorf("%s: %s", path, ve.Message))
		}
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/activities/0/start_date" into
// "activities[0].start_date".
func jsonPointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
