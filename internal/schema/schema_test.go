package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	out, err := Snapshot()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "teamwrapped analytics snapshot", doc["title"])
	assert.Equal(t, "object", doc["type"])

	props := doc["properties"].(map[string]any)
	for _, key := range []string{"id", "createdOn", "slack", "people", "lifeMoments"} {
		assert.Contains(t, props, key)
	}

	created := props["createdOn"].(map[string]any)
	assert.Equal(t, "date-time", created["format"])

	people := props["people"].(map[string]any)
	assert.Equal(t, "array", people["type"])
	person := people["items"].(map[string]any)
	assert.Equal(t, []any{"name"}, person["required"])

	slack := props["slack"].(map[string]any)
	channels := slack["properties"].(map[string]any)["channels"].(map[string]any)
	channel := channels["additionalProperties"].(map[string]any)
	reacji := channel["properties"].(map[string]any)["reacji"].(map[string]any)
	assert.Equal(t, "object", reacji["type"])
	assert.Equal(t, "integer", reacji["additionalProperties"].(map[string]any)["type"])

	moments := props["lifeMoments"].(map[string]any)["items"].(map[string]any)
	momentProps := moments["properties"].(map[string]any)
	assert.Equal(t,
		[]any{"baby", "birthday", "wedding", "promotion", "anniversary", "other"},
		momentProps["type"].(map[string]any)["enum"])
	assert.Equal(t, []any{"top", "bottom"}, momentProps["captionPosition"].(map[string]any)["enum"])
}
