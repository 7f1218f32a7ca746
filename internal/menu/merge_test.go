package menu

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeChunks(t *testing.T, raws ...string) []any {
	t.Helper()
	out := make([]any, len(raws))
	for i, raw := range raws {
		require.NoError(t, json.Unmarshal([]byte(raw), &out[i]), "chunk %d", i)
	}
	return out
}

func TestMergeMainCourseAcrossChunks(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[{"id":1,"title":"Main Course","description":""}],
		  "sub_category":[{"id":1,"catId":1,"title":"Pasta","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Penne","description":"","price":12}]}}`,
		`{"data":{"category":[{"id":7,"title":"MAIN COURSE ","description":""}],
		  "sub_category":[{"id":3,"catId":7,"title":"Grill","description":""}],
		  "items":[{"itemId":1,"subCatId":3,"title":"Ribeye","description":"","price":"$29.50"}]}}`,
		`{"category":[{"id":1,"title":"main course","description":""}],
		  "sub_category":[{"id":1,"catId":1,"title":"Curries","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Korma","description":"","price":15}]}`,
	)

	doc, err := NewMerger(nil).Merge(chunks)
	require.NoError(t, err)

	require.Len(t, doc.Data.Categories, 1)
	assert.Equal(t, Category{ID: 1, Title: "Main Course"}, doc.Data.Categories[0])

	require.Len(t, doc.Data.SubCategories, 3)
	for i, sc := range doc.Data.SubCategories {
		assert.Equal(t, i+1, sc.ID)
		assert.Equal(t, 1, sc.CatID, sc.Title)
	}

	require.Len(t, doc.Data.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{doc.Data.Items[0].SubCatID, doc.Data.Items[1].SubCatID, doc.Data.Items[2].SubCatID})
	assert.Equal(t, []int{1, 2, 3}, []int{doc.Data.Items[0].ItemID, doc.Data.Items[1].ItemID, doc.Data.Items[2].ItemID})
	assert.Equal(t, 29.5, doc.Data.Items[1].Price)
}

func TestMergeDeduplicatesCanonicalSubcategories(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[{"id":1,"title":"Sweets","description":""}],
		  "sub_category":[{"id":1,"catId":1,"title":"Desserts","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Pie","description":"","price":4}]}}`,
		`{"data":{"category":[{"id":1,"title":"Sweets","description":""}],
		  "sub_category":[{"id":1,"catId":1,"title":"DESSERTS ","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Cake","description":"","price":5}]}}`,
	)

	doc, err := NewMerger(NewCanonicalizer()).Merge(chunks)
	require.NoError(t, err)

	require.Len(t, doc.Data.SubCategories, 1)
	assert.Equal(t, "Dessert", doc.Data.SubCategories[0].Title)
	require.Len(t, doc.Data.Items, 2)
	for _, it := range doc.Data.Items {
		assert.Equal(t, 1, it.SubCatID, it.Title)
	}
}

func TestMergeUnresolvedItemFallsBackToFirstSubcategory(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[],"sub_category":[{"id":1,"catId":1,"title":"Drinks","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Cola","description":"","price":2},
		           {"itemId":2,"subCatId":42,"title":"Lemonade","description":"","price":3}]}}`,
		`{"data":{"category":[],"sub_category":[{"id":1,"catId":1,"title":"Sides","description":""}],
		  "items":[]}}`,
	)

	doc, err := NewMerger(nil).Merge(chunks)
	require.NoError(t, err)
	require.Len(t, doc.Data.Items, 2)
	assert.Equal(t, 1, doc.Data.Items[1].SubCatID)
	assert.Equal(t, 1, doc.Data.SubCategories[1].CatID)
}

func TestMergeFlagsAndCollections(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[],"sub_category":[{"id":1,"catId":1,"title":"Soups","description":""}],
		  "items":[{"itemId":1,"subCatId":1,"title":"Chowder","description":"","price":0,
		            "variantAvailable":true,
		            "variants":[{"variantTitle":"Cup","price":"4.00","description":""},{"variantTitle":"Bowl","price":6}],
		            "options":[{"optTitle":"Bread","commonChoicePriceAvailable":1,"price":1,
		                        "choices":[{"title":"Sourdough","price":1}]}]}]}}`,
	)

	doc, err := NewMerger(nil).Merge(chunks)
	require.NoError(t, err)
	it := doc.Data.Items[0]
	assert.Equal(t, 1, it.VariantAvailable)
	assert.Equal(t, []Variant{{VariantTitle: "Cup", Price: 4}, {VariantTitle: "Bowl", Price: 6}}, it.Variants)
	assert.Equal(t, 0, it.OptionsAvailable)
	require.Len(t, it.Options, 1)
	assert.Equal(t, "Sourdough", it.Options[0].Choices[0].Title)
}

func TestMergeMissingKey(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[],"sub_category":[],"items":[]}}`,
		`{"data":{"category":[],"sub_category":[],"items":[{"itemId":1,"subCatId":1,"price":3}]}}`,
	)

	_, err := NewMerger(nil).Merge(chunks)
	require.Error(t, err)

	var merr *MergeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 1, merr.Chunk)
	assert.Equal(t, "items", merr.Entity)
	assert.Equal(t, 0, merr.Index)
	assert.Equal(t, "title", merr.Key)
}

func TestMergeRejectsNonObjectChunk(t *testing.T) {
	_, err := NewMerger(nil).Merge([]any{[]any{"not", "a", "menu"}})

	var merr *MergeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 0, merr.Chunk)
}

func TestMergeSubcategoryWithoutCatID(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[],"sub_category":[{"id":1,"title":"Sides","description":""}],"items":[]}}`,
	)

	_, err := NewMerger(nil).Merge(chunks)

	var merr *MergeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "sub_category", merr.Entity)
	assert.Equal(t, "catId", merr.Key)
}

func TestMergeNullReferencesUseDefaults(t *testing.T) {
	chunks := decodeChunks(t,
		`{"data":{"category":[{"id":1,"title":"Food","description":""}],
		  "sub_category":[{"id":1,"catId":1,"title":"Drinks","description":""},
		                  {"id":2,"catId":null,"title":"Sides","description":""}],
		  "items":[{"itemId":1,"subCatId":null,"title":"Cola","description":"","price":2},
		           {"itemId":2,"subCatId":2,"title":"Fries","description":"","price":3}]}}`,
	)

	doc, err := NewMerger(nil).Merge(chunks)
	require.NoError(t, err)
	require.Len(t, doc.Data.SubCategories, 2)
	assert.Equal(t, 1, doc.Data.SubCategories[1].CatID)
	require.Len(t, doc.Data.Items, 2)
	assert.Equal(t, 1, doc.Data.Items[0].SubCatID)
	assert.Equal(t, 2, doc.Data.Items[1].SubCatID)
}
