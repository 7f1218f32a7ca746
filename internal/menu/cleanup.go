package menu

import (
	"regexp"
	"strings"
)

// Subcategory titles the vision model invents from table layout noise.
var hallucinatedTitles = []*regexp.Regexp{
	regexp.MustCompile(`^Column \d+$`),
	regexp.MustCompile(`^\d+[a-zA-Z]?$`),
	regexp.MustCompile(`^$`),
}

func isHallucinatedTitle(title string) bool {
	t := strings.TrimSpace(title)
	for _, re := range hallucinatedTitles {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// FilterHallucinatedSubcategories drops subcategories with noise titles
// ("Column 1", "16v", "") together with the items that point at them.
func FilterHallucinatedSubcategories(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()

	kept := make([]SubCategory, 0, len(out.Data.SubCategories))
	valid := make(map[int]bool, len(out.Data.SubCategories))
	for _, sc := range out.Data.SubCategories {
		if isHallucinatedTitle(sc.Title) {
			continue
		}
		kept = append(kept, sc)
		valid[sc.ID] = true
	}

	items := make([]Item, 0, len(out.Data.Items))
	for _, it := range out.Data.Items {
		if valid[it.SubCatID] {
			items = append(items, it)
		}
	}

	out.Data.SubCategories = kept
	out.Data.Items = items
	return out
}

// MergeSingleItemSubcategories folds subcategories that only hold one item
// titled like the subcategory itself back into the parent subcategory.
// Titles are compared after canonicalization, so "DESSERTS" finds "Dessert".
func MergeSingleItemSubcategories(doc *Document, parentTitle string, canon *Canonicalizer) *Document {
	if doc == nil {
		return nil
	}
	if canon == nil {
		canon = NewCanonicalizer()
	}
	out := doc.Clone()

	parentKey := strings.ToUpper(canon.Canonical(parentTitle))
	parentID := 0
	for _, sc := range out.Data.SubCategories {
		if strings.ToUpper(canon.Canonical(sc.Title)) == parentKey {
			parentID = sc.ID
			break
		}
	}
	if parentID == 0 {
		return out
	}

	kept := make([]SubCategory, 0, len(out.Data.SubCategories))
	for _, sc := range out.Data.SubCategories {
		if sc.ID == parentID {
			kept = append(kept, sc)
			continue
		}
		var members []int
		for i, it := range out.Data.Items {
			if it.SubCatID == sc.ID {
				members = append(members, i)
			}
		}
		if len(members) == 1 && strings.EqualFold(sc.Title, out.Data.Items[members[0]].Title) {
			out.Data.Items[members[0]].SubCatID = parentID
			continue
		}
		kept = append(kept, sc)
	}
	out.Data.SubCategories = kept
	return out
}

// Concat appends documents, shifting each document's ids past the ones
// already taken so references stay inside their own document. Callers
// reindex the result.
func Concat(docs ...*Document) *Document {
	out := &Document{}
	catOffset, subcatOffset, itemOffset := 0, 0, 0
	for _, d := range docs {
		if d == nil {
			continue
		}
		maxCat, maxSub, maxItem := 0, 0, 0
		for _, c := range d.Data.Categories {
			maxCat = max(maxCat, c.ID)
			c.ID += catOffset
			out.Data.Categories = append(out.Data.Categories, c)
		}
		for _, sc := range d.Data.SubCategories {
			maxSub = max(maxSub, sc.ID)
			sc.ID += subcatOffset
			sc.CatID += catOffset
			out.Data.SubCategories = append(out.Data.SubCategories, sc)
		}
		for _, it := range d.Data.Items {
			maxItem = max(maxItem, it.ItemID)
			it = it.clone()
			it.ItemID += itemOffset
			it.SubCatID += subcatOffset
			out.Data.Items = append(out.Data.Items, it)
		}
		catOffset += maxCat
		subcatOffset += maxSub
		itemOffset += maxItem
	}
	return out
}
