package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type scheduleInput struct {
	Title string `json:"title" jsonschema_description:"The title of the meeting."`
	Time  string `json:"time" jsonschema_description:"When the meeting takes place."`
}

func TestGenerate(t *testing.T) {
	s := Generate[scheduleInput]()
	require.NotNil(t, s)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "schema should have properties")
	assert.Contains(t, props, "title")
	assert.Contains(t, props, "time")

	required, ok := decoded["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "title")
	assert.Contains(t, required, "time")
}

func TestConvertToGeminiSchema(t *testing.T) {
	s := Generate[scheduleInput]()

	converted, err := ConvertToGeminiSchema(s)
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, converted.Type)
	require.Contains(t, converted.Properties, "title")
	assert.Equal(t, genai.TypeString, converted.Properties["title"].Type)
	assert.Equal(t, "The title of the meeting.", converted.Properties["title"].Description)
	assert.ElementsMatch(t, []string{"title", "time"}, converted.Required)
}

func TestConvertToGeminiSchema_Nil(t *testing.T) {
	converted, err := ConvertToGeminiSchema(nil)
	require.NoError(t, err)
	assert.Equal(t, genai.TypeObject, converted.Type)
}

func TestConvertRawToGeminiSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"tags": {"type": "array", "items": {"type": "string"}},
			"count": {"type": "integer"}
		},
		"required": ["tags"]
	}`)

	converted, err := ConvertRawToGeminiSchema(raw)
	require.NoError(t, err)

	require.Contains(t, converted.Properties, "tags")
	assert.Equal(t, genai.TypeArray, converted.Properties["tags"].Type)
	require.NotNil(t, converted.Properties["tags"].Items)
	assert.Equal(t, genai.TypeString, converted.Properties["tags"].Items.Type)
	assert.Equal(t, genai.TypeInteger, converted.Properties["count"].Type)
	assert.Equal(t, []string{"tags"}, converted.Required)
}
