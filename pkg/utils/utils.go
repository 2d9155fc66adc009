// Package utils holds small helpers shared by the CLIs and config loaders.
package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToJSONSchema reflects t into an inlined JSON schema document.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// ToIndentedJSONSchema is ToJSONSchema formatted for writing to disk.
func ToIndentedJSONSchema[T any](t T) ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	return json.MarshalIndent(r.Reflect(t), "", "  ")
}
