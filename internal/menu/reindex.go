package menu

// Reindex renumbers categories, subcategories and items to 1..N in their
// current order and rewrites catId/subCatId to match. References that do not
// resolve fall back to 1. It must be the last mutation before persistence.
func Reindex(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()

	catIDs := make(map[int]int, len(out.Data.Categories))
	for i := range out.Data.Categories {
		c := &out.Data.Categories[i]
		if _, seen := catIDs[c.ID]; !seen {
			catIDs[c.ID] = i + 1
		}
		c.ID = i + 1
	}

	subcatIDs := make(map[int]int, len(out.Data.SubCategories))
	for i := range out.Data.SubCategories {
		sc := &out.Data.SubCategories[i]
		if _, seen := subcatIDs[sc.ID]; !seen {
			subcatIDs[sc.ID] = i + 1
		}
		sc.ID = i + 1
		sc.CatID = remap(catIDs, sc.CatID)
	}

	for i := range out.Data.Items {
		it := &out.Data.Items[i]
		it.ItemID = i + 1
		it.SubCatID = remap(subcatIDs, it.SubCatID)
	}
	return out
}

func remap(ids map[int]int, old int) int {
	if id, ok := ids[old]; ok {
		return id
	}
	return 1
}
