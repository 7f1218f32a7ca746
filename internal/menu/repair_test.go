package menu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMenuJSON = `{"data":{"category":[{"id":1,"title":"Food","description":""}],
"sub_category":[{"id":1,"catId":1,"title":"Dessert","description":""}],
"items":[{"itemId":1,"subCatId":1,"title":"Pie","description":"","price":4,
"variantAvailable":0,"variants":[],"optionsAvailable":0,"options":[]}]}}`

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```JSON {\"a\":1} ```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}  "))
}

func TestParseJSON(t *testing.T) {
	res := ParseJSON("```json\n" + validMenuJSON + "\n```")
	require.True(t, res.OK())
	assert.IsType(t, map[string]any{}, res.Value)

	res = ParseJSON("  ```json\n```  ")
	assert.ErrorIs(t, res.Err, ErrEmptyResponse)

	res = ParseJSON(`{"data": `)
	assert.False(t, res.OK())
}

func TestRepairTrailingComma(t *testing.T) {
	res := Repair(`{"a": [1, 2, ], "b": {"c": 3,},}`)
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{
		"a": []any{float64(1), float64(2)},
		"b": map[string]any{"c": float64(3)},
	}, res.Value)
}

func TestRepairBalancesBraces(t *testing.T) {
	res := Repair(`{"data": {"items": [{"title": "Pie {slice}"}`)
	require.True(t, res.OK(), res.Err)
	data := res.Value.(map[string]any)["data"].(map[string]any)
	items := data["items"].([]any)
	assert.Equal(t, "Pie {slice}", items[0].(map[string]any)["title"])

	res = Repair(`{"a": 1}}}`)
	require.True(t, res.OK(), res.Err)
	assert.Equal(t, map[string]any{"a": float64(1)}, res.Value)
}

func TestRepairGivesUp(t *testing.T) {
	res := Repair("the menu could not be read")
	assert.False(t, res.OK())

	res = Repair("")
	assert.ErrorIs(t, res.Err, ErrEmptyResponse)
}

func TestParseOrRepairFencedTrailingComma(t *testing.T) {
	v := newTestValidator(t)
	raw := "```json\n" + validMenuJSON[:len(validMenuJSON)-1] + ",}\n```"

	res := ParseOrRepair(raw, v.ValidateValue)
	require.True(t, res.OK(), res.Err)

	doc, err := DecodeDocument(res.Value)
	require.NoError(t, err)
	require.Len(t, doc.Data.Items, 1)
	assert.Equal(t, "Pie", doc.Data.Items[0].Title)
}

func TestParseOrRepairPrefersStrictParse(t *testing.T) {
	v := newTestValidator(t)
	res := ParseOrRepair(validMenuJSON, v.ValidateValue)
	require.True(t, res.OK())
}

func TestParseOrRepairValidationFailure(t *testing.T) {
	v := newTestValidator(t)
	res := ParseOrRepair(`{"data": {"items": [{"title": "Pie"}],}}`, v.ValidateValue)
	require.False(t, res.OK())

	var verr *ValidationError
	assert.True(t, errors.As(res.Err, &verr))
}
