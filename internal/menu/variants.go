package menu

import (
	"regexp"
	"strconv"
)

// descriptionLadder matches "PINT $2.00 QUART $3.00" style price ladders.
var descriptionLadder = regexp.MustCompile(`(\w+)\s*\$([0-9]+(?:\.[0-9]{1,2})?)`)

// ParseLadder returns one variant per "<word> $<number>" pair in text.
func ParseLadder(text string) []Variant {
	matches := descriptionLadder.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Variant, 0, len(matches))
	for _, m := range matches {
		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			price = 0
		}
		out = append(out, Variant{
			VariantTitle: NormalizeVariantTitle(m[1]),
			Price:        NormalizePrice(price),
		})
	}
	return out
}

// ExtractDescriptionVariants promotes price ladders embedded in item
// descriptions into structured variants and clears the description.
func ExtractDescriptionVariants(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	for i := range out.Data.Items {
		it := &out.Data.Items[i]
		if it.Description == "" {
			continue
		}
		if vs := ParseLadder(it.Description); len(vs) > 0 {
			it.SetVariants(vs)
			it.Description = ""
		}
	}
	return out
}

// PropagateSharedVariants normalizes every variant list and copies the first
// variant list found in a subcategory onto the items of that subcategory that
// have none.
func PropagateSharedVariants(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	for _, sc := range out.Data.SubCategories {
		var shared []Variant
		for _, it := range out.Data.Items {
			if it.SubCatID == sc.ID && len(it.Variants) > 0 {
				shared = normalizeVariants(it.Variants)
				break
			}
		}
		for i := range out.Data.Items {
			it := &out.Data.Items[i]
			if it.SubCatID != sc.ID {
				continue
			}
			switch {
			case len(it.Variants) > 0:
				it.SetVariants(normalizeVariants(it.Variants))
			case len(shared) > 0:
				it.SetVariants(shared)
			}
		}
	}
	return out
}

func normalizeVariants(vs []Variant) []Variant {
	out := make([]Variant, len(vs))
	for i, v := range vs {
		out[i] = NormalizeVariant(v)
	}
	return out
}

// EnforceInvariants makes the availability flags agree with the collections:
// a variant list always zeroes the flat price, and a flag without a
// collection is cleared.
func EnforceInvariants(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	for i := range out.Data.Items {
		it := &out.Data.Items[i]
		if len(it.Variants) > 0 {
			it.VariantAvailable = 1
			it.Price = 0
		} else {
			it.VariantAvailable = 0
		}
		if len(it.Options) > 0 {
			it.OptionsAvailable = 1
		} else {
			it.OptionsAvailable = 0
		}
	}
	return out
}
