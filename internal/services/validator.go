package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks issuer project-create payloads against the JSON schema
// shipped in the schemas directory. Malformed submissions are rejected before
// any catalog work happens.
type Validator struct {
	project *jsonschema.Schema
}

// NewValidator compiles schemas/project.v1.json from schemaDir.
func NewValidator(schemaDir string) (*Validator, error) {
	path := filepath.Join(schemaDir, "project.v1.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %q: %w", path, err)
	}
	schema, err := jsonschema.CompileString("https://infrabondx.dev/schemas/project.v1", string(data))
	if err != nil {
		return nil, fmt.Errorf("compile project schema: %w", err)
	}
	return &Validator{project: schema}, nil
}

// ValidateProject validates a raw project-create request body.
func (v *Validator) ValidateProject(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON", ErrValidation)
	}
	if err := v.project.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
