package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *santhosh.Schema
	schemaErr      error
)

// ValidationError lists every schema violation found in a configuration tree.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Errors, "; "))
}

func compileSchema(raw []byte) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("config.schema.json")
}

// validate checks a koanf tree against the embedded schema. The tree is
// round-tripped through JSON so that durations and typed slices become plain
// JSON values first.
func validate(tree map[string]any) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = compileSchema(schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile config schema: %w", schemaErr)
	}

	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshal config tree: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config tree: %w", err)
	}

	if err := compiledSchema.Validate(v); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Errors: collectValidationErrors(ve)}
		}
		return &ValidationError{Errors: []string{err.Error()}}
	}
	return nil
}

func collectValidationErrors(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectValidationErrors(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return msgs
}
