package protocol

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	configSchema = mustCompile("config.schema.json")
	statusSchema = mustCompile("status.schema.json")
	resultSchema = mustCompile("result.schema.json")
)

func mustCompile(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("protocol: missing embedded schema %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(string(raw))); err != nil {
		panic(fmt.Sprintf("protocol: add schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("protocol: compile schema %s: %v", name, err))
	}
	return s
}

// ValidateConfigJSON checks a field-by-name config document against the
// boundary schema before it is decoded. Unknown fields are rejected so
// binding typos surface as validation errors instead of silent defaults.
func ValidateConfigJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config json: %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("config json: %w", err)
	}
	return nil
}

// ValidateStatusJSON and ValidateResultJSON guard the outbound snapshots in
// tests and debug tooling.
func ValidateStatusJSON(raw []byte) error { return validate(statusSchema, raw) }
func ValidateResultJSON(raw []byte) error { return validate(resultSchema, raw) }

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
