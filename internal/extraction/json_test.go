package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONFencedJSON(t *testing.T) {
	response := "Here is the extracted data:\n```json\n{\"totalRevenue\": 1250.5}\n```\nLet me know if you need anything else."
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalRevenue": 1250.5}`, got)
}

func TestExtractJSONAnyFence(t *testing.T) {
	response := "```\n{\"guestName\": \"A. Smith\"}\n```"
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"guestName": "A. Smith"}`, got)
}

func TestExtractJSONBareBody(t *testing.T) {
	got, err := ExtractJSON(`{"rooms": 12}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rooms": 12}`, got)
}

func TestExtractJSONPrefersJSONFenceOverBrokenAnyFence(t *testing.T) {
	// A ``` fence earlier in the response holds prose; the ```json fence
	// still wins because it is tried first.
	response := "```json\n{\"ok\": true}\n```\nand also ```not json at all```"
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, got)
}

func TestExtractJSONInvalidEverywhere(t *testing.T) {
	_, err := ExtractJSON("I could not read the document, sorry.")
	require.Error(t, err)

	_, err = ExtractJSON("```json\n{broken\n```")
	require.Error(t, err)

	_, err = ExtractJSON("")
	require.Error(t, err)
}
