package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// Generate translates a Go input struct into a JSON schema at runtime,
// producing a standard format usable outside Go.
func Generate[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var v T

	return reflector.Reflect(v)
}

// ConvertToGeminiSchema rewrites a JSON schema into the genai dialect.
// Gemini is stricter than the reflector's output: type names are
// uppercase enums and unknown keywords like "title" must be dropped.
func ConvertToGeminiSchema(s *jsonschema.Schema) (*genai.Schema, error) {
	if s == nil {
		return &genai.Schema{Type: genai.TypeObject}, nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return ConvertRawToGeminiSchema(raw)
}

// ConvertRawToGeminiSchema converts raw JSON schema bytes, as advertised
// over the tool wire, into the genai dialect.
func ConvertRawToGeminiSchema(raw json.RawMessage) (*genai.Schema, error) {
	var node map[string]any
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	return convertNode(node)
}

func convertNode(node map[string]any) (*genai.Schema, error) {
	out := &genai.Schema{}

	if t, ok := node["type"].(string); ok {
		out.Type = geminiType(t)
	} else {
		out.Type = genai.TypeObject
	}

	if desc, ok := node["description"].(string); ok {
		out.Description = desc
	}

	if props, ok := node["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, sub := range props {
			subNode, ok := sub.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q is not an object", name)
			}
			converted, err := convertNode(subNode)
			if err != nil {
				return nil, err
			}
			out.Properties[name] = converted
		}
	}

	if required, ok := node["required"].([]any); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				out.Required = append(out.Required, name)
			}
		}
	}

	if items, ok := node["items"].(map[string]any); ok {
		converted, err := convertNode(items)
		if err != nil {
			return nil, err
		}
		out.Items = converted
	}

	return out, nil
}

func geminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
