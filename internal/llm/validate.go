package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds schemas keyed by name and definition, so two schemas
// that share a name never share a compiled form.
var compiled = struct {
	sync.Mutex
	m map[string]*jsonschema.Schema
}{m: make(map[string]*jsonschema.Schema)}

// ValidateJSON checks raw against schema. A nil schema accepts anything.
// Failures are reported as *ErrInvalidResponse carrying raw.
func ValidateJSON(schema *Schema, raw json.RawMessage) error {
	return validateResponse(schema, raw)
}

func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("invalid JSON: %w", err)
	}
	s, err := compileSchema(schema)
	if err != nil {
		return invalid("compile schema %q: %w", schema.Name, err)
	}
	if err := s.Validate(doc); err != nil {
		return invalid("schema validation failed: %w", err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	// Marshal first: the compiler wants decoded JSON values, not Go types
	// such as []string.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	key := schema.Name + "\x00" + string(def)

	compiled.Lock()
	defer compiled.Unlock()
	if s, ok := compiled.m[key]; ok {
		return s, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	url := fmt.Sprintf("mem://schemas/%s.json", schema.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.m[key] = s
	return s, nil
}
