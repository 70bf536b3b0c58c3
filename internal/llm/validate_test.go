package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-person",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Alice","age":10}`, false},
		{"missing required", `{"name":"Charlie"}`, true},
		{"wrong type", `{"name":"Dave","age":"ten"}`, true},
		{"below minimum", `{"name":"Eve","age":-1}`, true},
		{"not json", `COACHING: hello`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidateJSON_SameNameDifferentDefinitions(t *testing.T) {
	loose := &Schema{Name: "shared", Definition: map[string]any{"type": "object"}}
	strict := &Schema{Name: "shared", Definition: map[string]any{
		"type":     "object",
		"required": []string{"id"},
	}}

	if err := ValidateJSON(loose, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("loose schema: %v", err)
	}
	if err := ValidateJSON(strict, json.RawMessage(`{}`)); err == nil {
		t.Fatal("strict schema must not reuse the loose compiled form")
	}
}
