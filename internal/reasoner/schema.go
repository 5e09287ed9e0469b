package reasoner

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaFor generates the JSON Schema for v's type, used as the target
// schema for the gateway's repair pass.
func SchemaFor(v any) (string, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)
	out, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
