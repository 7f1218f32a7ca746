package menu

import (
	"encoding/json"
	"math"
	"strings"
)

// Document is the canonical menu document handed to the menu-management product.
type Document struct {
	Data Data `json:"data"`
}

type Data struct {
	Categories    []Category    `json:"category"`
	SubCategories []SubCategory `json:"sub_category"`
	Items         []Item        `json:"items"`
}

type Category struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SubCategory struct {
	ID          int    `json:"id"`
	CatID       int    `json:"catId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Item is a menu entry. VariantAvailable and OptionsAvailable are 0|1 flags,
// kept as ints because downstream consumers compare them numerically.
type Item struct {
	ItemID           int           `json:"itemId"`
	SubCatID         int           `json:"subCatId"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Price            float64       `json:"price"`
	VariantAvailable int           `json:"variantAvailable"`
	Variants         []Variant     `json:"variants"`
	OptionsAvailable int           `json:"optionsAvailable"`
	Options          []OptionGroup `json:"options"`
}

type Variant struct {
	VariantTitle string  `json:"variantTitle"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
}

type OptionGroup struct {
	OptTitle                   string   `json:"optTitle"`
	CommonChoicePriceAvailable int      `json:"commonChoicePriceAvailable"`
	Price                      float64  `json:"price"`
	Choices                    []Choice `json:"choices"`
}

type Choice struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AllergenInfo string  `json:"allergenInfo"`
	Dietary      string  `json:"dietary"`
	Price        float64 `json:"price"`
}

// MarshalJSON writes empty collections as [] so a marshalled document
// always satisfies the array requirements of the schema.
func (d Data) MarshalJSON() ([]byte, error) {
	type alias Data
	out := alias(d)
	if out.Categories == nil {
		out.Categories = []Category{}
	}
	if out.SubCategories == nil {
		out.SubCategories = []SubCategory{}
	}
	if out.Items == nil {
		out.Items = []Item{}
	}
	return json.Marshal(out)
}

func (it Item) MarshalJSON() ([]byte, error) {
	type alias Item
	out := alias(it)
	if out.Variants == nil {
		out.Variants = []Variant{}
	}
	if out.Options == nil {
		out.Options = []OptionGroup{}
	}
	return json.Marshal(out)
}

func (g OptionGroup) MarshalJSON() ([]byte, error) {
	type alias OptionGroup
	out := alias(g)
	if out.Choices == nil {
		out.Choices = []Choice{}
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	out.Data.Categories = append([]Category(nil), d.Data.Categories...)
	out.Data.SubCategories = append([]SubCategory(nil), d.Data.SubCategories...)
	out.Data.Items = make([]Item, len(d.Data.Items))
	for i, it := range d.Data.Items {
		out.Data.Items[i] = it.clone()
	}
	return out
}

func (it Item) clone() Item {
	it.Variants = append([]Variant(nil), it.Variants...)
	if it.Options != nil {
		opts := make([]OptionGroup, len(it.Options))
		for i, g := range it.Options {
			g.Choices = append([]Choice(nil), g.Choices...)
			opts[i] = g
		}
		it.Options = opts
	}
	return it
}

// SetVariants attaches a variant ladder, which supersedes the flat price.
func (it *Item) SetVariants(vs []Variant) {
	it.Variants = append([]Variant(nil), vs...)
	it.VariantAvailable = 1
	it.Price = 0
}

// NormalizeVariantTitle capitalizes the first letter and lower-cases the rest.
func NormalizeVariantTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return title
	}
	lower := strings.ToLower(title)
	r := []rune(lower)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// NormalizePrice rounds to two decimals and clamps negatives to zero.
func NormalizePrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return math.Round(p*100) / 100
}

// NormalizeVariant applies title and price normalization.
func NormalizeVariant(v Variant) Variant {
	return Variant{
		VariantTitle: NormalizeVariantTitle(v.VariantTitle),
		Price:        NormalizePrice(v.Price),
		Description:  v.Description,
	}
}
