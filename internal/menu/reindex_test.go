package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReindexRenumbersDensely(t *testing.T) {
	doc := &Document{Data: Data{
		Categories: []Category{{ID: 10, Title: "Food"}, {ID: 4, Title: "Bar"}},
		SubCategories: []SubCategory{
			{ID: 7, CatID: 4, Title: "Beer"},
			{ID: 3, CatID: 10, Title: "Dessert"},
			{ID: 9, CatID: 99, Title: "Orphan"},
		},
		Items: []Item{
			{ItemID: 40, SubCatID: 3, Title: "Pie"},
			{ItemID: 2, SubCatID: 7, Title: "Lager"},
			{ItemID: 2, SubCatID: 55, Title: "Mystery"},
		},
	}}

	out := Reindex(doc)
	require.NotNil(t, out)

	assert.Equal(t, []int{1, 2}, []int{out.Data.Categories[0].ID, out.Data.Categories[1].ID})

	assert.Equal(t, SubCategory{ID: 1, CatID: 2, Title: "Beer"}, out.Data.SubCategories[0])
	assert.Equal(t, SubCategory{ID: 2, CatID: 1, Title: "Dessert"}, out.Data.SubCategories[1])
	assert.Equal(t, SubCategory{ID: 3, CatID: 1, Title: "Orphan"}, out.Data.SubCategories[2])

	assert.Equal(t, 1, out.Data.Items[0].ItemID)
	assert.Equal(t, 2, out.Data.Items[0].SubCatID)
	assert.Equal(t, 2, out.Data.Items[1].ItemID)
	assert.Equal(t, 1, out.Data.Items[1].SubCatID)
	assert.Equal(t, 3, out.Data.Items[2].ItemID)
	assert.Equal(t, 1, out.Data.Items[2].SubCatID)

	// input untouched
	assert.Equal(t, 10, doc.Data.Categories[0].ID)
	assert.Equal(t, 40, doc.Data.Items[0].ItemID)
}

func TestReindexDuplicateIDsMapToFirst(t *testing.T) {
	doc := &Document{Data: Data{
		SubCategories: []SubCategory{{ID: 1, CatID: 1, Title: "A"}, {ID: 1, CatID: 1, Title: "B"}},
		Items:         []Item{{ItemID: 1, SubCatID: 1, Title: "x"}},
	}}

	out := Reindex(doc)
	assert.Equal(t, 2, out.Data.SubCategories[1].ID)
	assert.Equal(t, 1, out.Data.Items[0].SubCatID)
}

func TestReindexIsIdempotent(t *testing.T) {
	once := Reindex(sampleDocument())
	assert.Equal(t, once, Reindex(once))
	assert.Nil(t, Reindex(nil))
}
