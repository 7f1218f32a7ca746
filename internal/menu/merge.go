package menu

import (
	"strings"
)

// itemSubcategoryCutoff is the looser cutoff used when an item's subcategory
// title has no exact entry in the merged canonical table.
const itemSubcategoryCutoff = 0.8

// Merger folds per-chunk extraction results into one document.
type Merger struct {
	canon *Canonicalizer
}

func NewMerger(canon *Canonicalizer) *Merger {
	if canon == nil {
		canon = NewCanonicalizer()
	}
	return &Merger{canon: canon}
}

type subcatKey struct {
	title string
	catID string
}

// mergeState carries the running id tables across chunks. Chunk order
// matters: ids are handed out in encounter order.
type mergeState struct {
	doc          *Document
	catIDs       map[string]int
	subcatIDs    map[subcatKey]int
	canonicalIDs map[string]int
	canonKeys    []string
}

// Merge combines decoded chunk results. Each chunk is a JSON object either
// wrapped in {"data": ...} or holding the payload directly. Categories are
// deduplicated by title, subcategories by (canonical title, catId), items are
// always appended. All three kinds get fresh sequential ids.
func (m *Merger) Merge(chunks []any) (*Document, error) {
	st := &mergeState{
		doc:          &Document{},
		catIDs:       map[string]int{},
		subcatIDs:    map[subcatKey]int{},
		canonicalIDs: map[string]int{},
	}

	for i, chunk := range chunks {
		payload, err := chunkPayload(i, chunk)
		if err != nil {
			return nil, err
		}
		if err := m.mergeChunk(st, i, payload); err != nil {
			return nil, err
		}
	}
	return st.doc, nil
}

func chunkPayload(idx int, chunk any) (map[string]any, error) {
	obj, ok := chunk.(map[string]any)
	if !ok {
		return nil, &MergeError{Chunk: idx, Key: "chunk result is not a JSON object"}
	}
	raw, wrapped := obj["data"]
	if !wrapped {
		return obj, nil
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, &MergeError{Chunk: idx, Key: "data is not a JSON object"}
	}
	return data, nil
}

func entries(idx int, payload map[string]any, key string) ([]map[string]any, error) {
	list, ok := asList(payload[key])
	if !ok {
		return nil, &MergeError{Chunk: idx, Key: key + " is not a list"}
	}
	out := make([]map[string]any, 0, len(list))
	for j, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, &MergeError{Chunk: idx, Entity: key, Index: j, Key: "object"}
		}
		out = append(out, m)
	}
	return out, nil
}

func requireString(idx int, entity string, j int, m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", &MergeError{Chunk: idx, Entity: entity, Index: j, Key: key}
	}
	return s, nil
}

// requireKey fails only on an absent key. A null value is returned as nil and
// resolves to the defaults downstream.
func requireKey(idx int, entity string, j int, m map[string]any, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &MergeError{Chunk: idx, Entity: entity, Index: j, Key: key}
	}
	return v, nil
}

func (m *Merger) mergeChunk(st *mergeState, idx int, payload map[string]any) error {
	cats, err := entries(idx, payload, "category")
	if err != nil {
		return err
	}
	subcats, err := entries(idx, payload, "sub_category")
	if err != nil {
		return err
	}
	items, err := entries(idx, payload, "items")
	if err != nil {
		return err
	}

	// chunk-local id -> lower-cased category title
	chunkCatTitle := map[string]string{}
	for j, cat := range cats {
		title, err := requireString(idx, "category", j, cat, "title")
		if err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(title))
		if id, ok := cat["id"]; ok {
			if _, seen := chunkCatTitle[idKey(id)]; !seen {
				chunkCatTitle[idKey(id)] = key
			}
		}
		if _, ok := st.catIDs[key]; ok {
			continue
		}
		newID := len(st.doc.Data.Categories) + 1
		st.catIDs[key] = newID
		st.doc.Data.Categories = append(st.doc.Data.Categories, Category{
			ID:          newID,
			Title:       title,
			Description: asString(cat["description"]),
		})
	}

	// chunk-local subcategory id -> canonical title
	chunkSubcatTitle := map[string]string{}
	for j, sc := range subcats {
		title, err := requireString(idx, "sub_category", j, sc, "title")
		if err != nil {
			return err
		}
		rawID, err := requireKey(idx, "sub_category", j, sc, "id")
		if err != nil {
			return err
		}
		rawCatID, err := requireKey(idx, "sub_category", j, sc, "catId")
		if err != nil {
			return err
		}

		canonical := m.canon.Canonical(title)
		if _, seen := chunkSubcatTitle[idKey(rawID)]; !seen {
			chunkSubcatTitle[idKey(rawID)] = canonical
		}

		key := subcatKey{title: strings.ToLower(canonical), catID: idKey(rawCatID)}
		if _, ok := st.subcatIDs[key]; ok {
			continue
		}

		catID := 1
		if catTitle, ok := chunkCatTitle[idKey(rawCatID)]; ok {
			if id, ok := st.catIDs[catTitle]; ok {
				catID = id
			}
		}

		newID := len(st.doc.Data.SubCategories) + 1
		st.subcatIDs[key] = newID
		if _, known := st.canonicalIDs[key.title]; !known {
			st.canonKeys = append(st.canonKeys, key.title)
		}
		st.canonicalIDs[key.title] = newID
		st.doc.Data.SubCategories = append(st.doc.Data.SubCategories, SubCategory{
			ID:          newID,
			CatID:       catID,
			Title:       canonical,
			Description: asString(sc["description"]),
		})
	}

	for j, it := range items {
		rawSubCatID, err := requireKey(idx, "items", j, it, "subCatId")
		if err != nil {
			return err
		}
		title, err := requireString(idx, "items", j, it, "title")
		if err != nil {
			return err
		}

		subCatID := 1
		if canonical, ok := chunkSubcatTitle[idKey(rawSubCatID)]; ok {
			subCatID = st.resolveSubcategory(canonical)
		}

		price, _ := asFloat(it["price"])
		st.doc.Data.Items = append(st.doc.Data.Items, Item{
			ItemID:           len(st.doc.Data.Items) + 1,
			SubCatID:         subCatID,
			Title:            title,
			Description:      asString(it["description"]),
			Price:            price,
			VariantAvailable: asFlag(it["variantAvailable"]),
			Variants:         decodeVariants(it["variants"]),
			OptionsAvailable: asFlag(it["optionsAvailable"]),
			Options:          decodeOptions(it["options"]),
		})
	}
	return nil
}

func (st *mergeState) resolveSubcategory(canonical string) int {
	key := strings.ToLower(canonical)
	if id, ok := st.canonicalIDs[key]; ok {
		return id
	}
	if match, ok := ClosestMatch(key, st.canonKeys, itemSubcategoryCutoff); ok {
		return st.canonicalIDs[match]
	}
	return 1
}
