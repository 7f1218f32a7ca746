package menu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Helpers for reading loosely typed model output.

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, "$", ""))
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asFlag(v any) int {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	}
	if n, ok := asInt(v); ok && n != 0 {
		return 1
	}
	return 0
}

// idKey renders an id as given so that 1 and 1.0 compare equal and
// non-numeric ids still get a stable key.
func idKey(v any) string {
	if n, ok := asFloat(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return asString(v)
}

func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	l, ok := v.([]any)
	return l, ok
}

func decodeVariants(v any) []Variant {
	list, _ := asList(v)
	out := make([]Variant, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		price, _ := asFloat(m["price"])
		out = append(out, Variant{
			VariantTitle: asString(m["variantTitle"]),
			Price:        price,
			Description:  asString(m["description"]),
		})
	}
	return out
}

func decodeOptions(v any) []OptionGroup {
	list, _ := asList(v)
	out := make([]OptionGroup, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		price, _ := asFloat(m["price"])
		group := OptionGroup{
			OptTitle:                   asString(m["optTitle"]),
			CommonChoicePriceAvailable: asFlag(m["commonChoicePriceAvailable"]),
			Price:                      price,
		}
		choices, _ := asList(m["choices"])
		for _, rc := range choices {
			cm, ok := rc.(map[string]any)
			if !ok {
				continue
			}
			cp, _ := asFloat(cm["price"])
			group.Choices = append(group.Choices, Choice{
				Title:        asString(cm["title"]),
				Description:  asString(cm["description"]),
				AllergenInfo: asString(cm["allergenInfo"]),
				Dietary:      asString(cm["dietary"]),
				Price:        cp,
			})
		}
		out = append(out, group)
	}
	return out
}
