package schema

import (
	"github.com/invopop/jsonschema"
)

// Generate reflects a JSON schema for T with every definition inlined.
func Generate[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// Document is a set of named schemas published together.
type Document map[string]*jsonschema.Schema
