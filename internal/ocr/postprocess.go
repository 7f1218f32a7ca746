package ocr

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/menu"
)

const (
	// ChooseOneTitle names the option group built from an options list.
	ChooseOneTitle = "choose one"

	priceTolerance = 0.01
)

var (
	sizeWord      = regexp.MustCompile(`(?i)^(SMALL|MEDIUM|LARGE|HALF|WHOLE|PINT|QUART)$`)
	sizeWithPrice = regexp.MustCompile(`(?i)^(SMALL|MEDIUM|LARGE|HALF|WHOLE|PINT|QUART)\s*:?\s*(\$?\d+(?:\.\d{1,2})?)$`)
	ladderPrice   = regexp.MustCompile(`^\$?\d+(\.\d{1,2})?$`)
	parentHeader  = regexp.MustCompile(`^(.*?)(?:\s+|\s*\$)(\$?\d+(?:\.\d{1,2})?)$`)
	priceLine     = regexp.MustCompile(`\$\d`)
	misreadLarge  = regexp.MustCompile(`\bJe\b`)
	danglingPrice = regexp.MustCompile(`^(.*?\$\d+)\.?$`)
	whitespace    = regexp.MustCompile(`\s+`)
	parentTitle   = regexp.MustCompile(`(?i)BY THE (SLICE|PIECE|GLASS|BOWL|CUP|ORDER|PLATE)|CHOOSE ONE`)
)

// FixPrice repairs recurring OCR price misreads: "Je" for "Large", and
// "$1." or "$1" for "$1.00".
func FixPrice(text string) string {
	text = misreadLarge.ReplaceAllString(text, "Large")
	if m := danglingPrice.FindStringSubmatch(text); m != nil {
		return m[1] + ".00"
	}
	return text
}

func isPriceLine(line string) bool {
	return priceLine.MatchString(line)
}

func isItemName(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || IsLayoutHeader(line) || isPriceLine(line) {
		return false
	}
	return !sizeWord.MatchString(line)
}

// isBlockHeader opens a postprocessing section. Size labels and price
// lines are all-caps on many menus but belong to the section they sit in.
func isBlockHeader(text string) bool {
	return IsSectionHeader(text) && !sizeWord.MatchString(strings.TrimSpace(text))
}

// normalizeTitle compares titles ignoring case and all whitespace.
func normalizeTitle(title string) string {
	return strings.ToLower(whitespace.ReplaceAllString(title, ""))
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "$"), 64)
	if err != nil {
		return 0
	}
	return menu.NormalizePrice(f)
}

func samePrice(a, b float64) bool {
	return math.Abs(a-b) < priceTolerance
}

type scanState int

const (
	scanning scanState = iota
	inSharedVariantBlock
	inParentOptionsBlock
)

// Postprocessor reconstructs price ladders and option lists that the
// extraction lost, using the raw OCR token order as layout evidence.
type Postprocessor struct {
	canon *menu.Canonicalizer
}

func NewPostprocessor(canon *menu.Canonicalizer) *Postprocessor {
	if canon == nil {
		canon = menu.NewCanonicalizer()
	}
	return &Postprocessor{canon: canon}
}

// run holds the working item list for one Process call. Items are held by
// pointer so identity survives the rebuild-and-swap removals.
type run struct {
	items  []*menu.Item
	shared map[int][]menu.Variant
}

func (r *run) remove(drop map[*menu.Item]bool) {
	if len(drop) == 0 {
		return
	}
	kept := make([]*menu.Item, 0, len(r.items))
	for _, it := range r.items {
		if !drop[it] {
			kept = append(kept, it)
		}
	}
	r.items = kept
}

func (r *run) present(it *menu.Item) bool {
	for _, cur := range r.items {
		if cur == it {
			return true
		}
	}
	return false
}

func (r *run) find(subCatID int, norm string) *menu.Item {
	for _, it := range r.items {
		if it.SubCatID == subCatID && normalizeTitle(it.Title) == norm {
			return it
		}
	}
	return nil
}

// Process returns a rewritten copy of doc. Each OCR section bound to a
// subcategory is scanned once; then the option fold, shared-variant and
// title-pattern sweeps run in that order over the whole document.
func (p *Postprocessor) Process(doc *menu.Document, tokens []Token) *menu.Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()

	r := &run{shared: map[int][]menu.Variant{}}
	for i := range out.Data.Items {
		it := out.Data.Items[i]
		r.items = append(r.items, &it)
	}

	bySection := p.subcategoryTitles(out.Data.SubCategories)
	bounds := sectionBounds(tokens, isBlockHeader)
	for b := 0; b < len(bounds)-1; b++ {
		section := tokens[bounds[b]:bounds[b+1]]
		if len(section) == 0 {
			continue
		}
		subCatID, ok := p.bind(bySection, section[0].Text)
		if !ok {
			continue
		}
		r.scanSection(subCatID, section)
	}

	r.foldOptionsByPrice()
	r.forceSharedVariants(out.Data.SubCategories)
	r.foldTitlePatternParents(out.Data.SubCategories)

	items := make([]menu.Item, len(r.items))
	for i, it := range r.items {
		items[i] = *it
	}
	out.Data.Items = items

	log.WithFields(log.Fields{
		"stage":          "ocr_postprocess",
		"items_in":       len(doc.Data.Items),
		"items_out":      len(items),
		"shared_ladders": len(r.shared),
	}).Debug("ocr postprocessing done")
	return out
}

// subcategoryTitles indexes subcategory ids by upper-cased title and by
// upper-cased canonical title. A later subcategory with the same title wins.
func (p *Postprocessor) subcategoryTitles(subcats []menu.SubCategory) map[string]int {
	out := make(map[string]int, 2*len(subcats))
	for _, sc := range subcats {
		out[strings.ToUpper(strings.TrimSpace(sc.Title))] = sc.ID
	}
	for _, sc := range subcats {
		key := strings.ToUpper(p.canon.Canonical(sc.Title))
		if _, taken := out[key]; !taken {
			out[key] = sc.ID
		}
	}
	return out
}

func (p *Postprocessor) bind(titles map[string]int, header string) (int, bool) {
	title := strings.ToUpper(strings.TrimSpace(header))
	if id, ok := titles[title]; ok {
		return id, true
	}
	id, ok := titles[strings.ToUpper(p.canon.Canonical(header))]
	return id, ok
}

// readLadder reads a maximal run of size/price variants starting at i, in
// either "SIZE $N" single-token form or as a SIZE token followed by a price
// token. It returns the variants and the index after the run.
func readLadder(section []Token, i int) ([]menu.Variant, int) {
	var ladder []menu.Variant
	j := i
	for j < len(section) {
		cur := FixPrice(strings.TrimSpace(section[j].Text))
		if m := sizeWithPrice.FindStringSubmatch(cur); m != nil {
			ladder = append(ladder, menu.Variant{
				VariantTitle: menu.NormalizeVariantTitle(m[1]),
				Price:        parsePrice(m[2]),
			})
			j++
			continue
		}
		if j+1 < len(section) && sizeWord.MatchString(cur) {
			next := FixPrice(strings.TrimSpace(section[j+1].Text))
			if ladderPrice.MatchString(next) {
				ladder = append(ladder, menu.Variant{
					VariantTitle: menu.NormalizeVariantTitle(cur),
					Price:        parsePrice(next),
				})
				j += 2
				continue
			}
		}
		break
	}
	return ladder, j
}

// sectionScan is the per-section state machine.
type sectionScan struct {
	r        *run
	subCatID int

	state        scanState
	shared       []menu.Variant
	handled      map[*menu.Item]bool
	parent       *menu.Item
	parentPrice  float64
	parentLadder []menu.Variant
	optionLines  []string
}

func (r *run) scanSection(subCatID int, section []Token) {
	s := &sectionScan{r: r, subCatID: subCatID, handled: map[*menu.Item]bool{}}

	// section[0] is the header
	i := 1
	for i < len(section) {
		if ladder, next := readLadder(section, i); len(ladder) > 0 {
			s.closeParent()
			s.shared = ladder
			r.shared[subCatID] = ladder
			s.state = inSharedVariantBlock
			i = next
			continue
		}

		line := FixPrice(strings.TrimSpace(section[i].Text))
		i++

		if m := parentHeader.FindStringSubmatch(line); m != nil {
			s.openParent(strings.TrimSpace(m[1]), parsePrice(m[2]))
			continue
		}

		switch {
		case s.state == inParentOptionsBlock:
			if isItemName(line) {
				s.optionLines = append(s.optionLines, line)
			}
		case s.state == inSharedVariantBlock && isItemName(line):
			if it := r.find(subCatID, normalizeTitle(line)); it != nil {
				it.SetVariants(s.shared)
				s.handled[it] = true
			}
		case IsLayoutHeader(line) || isPriceLine(line) || !isItemName(line):
			s.closeParent()
			s.state = scanning
		}
	}
	s.finish()
}

// openParent handles a "<title> <price>" line. A title that names an item of
// this subcategory turns that item into an options parent; any other price
// line ends the current run.
func (s *sectionScan) openParent(title string, price float64) {
	s.closeParent()
	it := s.r.find(s.subCatID, normalizeTitle(title))
	if it == nil {
		s.state = scanning
		return
	}
	s.parent = it
	s.parentPrice = price
	s.parentLadder = it.Variants
	it.Price = 0
	it.VariantAvailable = 0
	it.Variants = nil
	it.Options = nil
	it.OptionsAvailable = 1
	s.optionLines = nil
	s.state = inParentOptionsBlock
}

// closeParent abandons an options run before the section ends. The parent
// gets back its header price and any variant ladder it carried, since no
// option group was built for it.
func (s *sectionScan) closeParent() {
	if s.parent != nil && len(s.parent.Options) == 0 {
		s.parent.OptionsAvailable = 0
		if len(s.parentLadder) > 0 {
			s.parent.SetVariants(s.parentLadder)
		} else {
			s.parent.Price = s.parentPrice
		}
	}
	s.parent = nil
	s.parentLadder = nil
	s.optionLines = nil
	if s.state == inParentOptionsBlock {
		s.state = scanning
	}
}

func (s *sectionScan) finish() {
	switch s.state {
	case inParentOptionsBlock:
		if s.parent == nil || len(s.optionLines) == 0 {
			s.closeParent()
			return
		}
		choices := make([]menu.Choice, 0, len(s.optionLines))
		drop := map[*menu.Item]bool{}
		for _, line := range s.optionLines {
			choices = append(choices, menu.Choice{Title: line, Price: s.parentPrice})
			norm := normalizeTitle(line)
			for _, it := range s.r.items {
				if it != s.parent && it.SubCatID == s.subCatID && normalizeTitle(it.Title) == norm {
					drop[it] = true
				}
			}
		}
		s.parent.Options = []menu.OptionGroup{chooseOne(choices)}
		s.parent.OptionsAvailable = 1
		s.r.remove(drop)

	case inSharedVariantBlock:
		if len(s.shared) == 0 {
			return
		}
		for _, it := range s.r.items {
			if it.SubCatID == s.subCatID && !s.handled[it] && len(it.Variants) == 0 {
				it.SetVariants(s.shared)
			}
		}
	}
}

func chooseOne(choices []menu.Choice) menu.OptionGroup {
	return menu.OptionGroup{
		OptTitle:                   ChooseOneTitle,
		CommonChoicePriceAvailable: 1,
		Price:                      0,
		Choices:                    choices,
	}
}

// foldable reports whether it can become a choice of another item: plain
// items only, never another parent or an item priced by variants.
func foldable(it *menu.Item) bool {
	return len(it.Options) == 0 && len(it.Variants) == 0
}

// foldOptionsByPrice folds same-subcategory items priced like an existing
// option group's choices into that group.
func (r *run) foldOptionsByPrice() {
	parents := append([]*menu.Item(nil), r.items...)
	for _, parent := range parents {
		if parent.OptionsAvailable != 1 || len(parent.Options) == 0 || !r.present(parent) {
			continue
		}
		ref, ok := referencePrice(parent.Options)
		if !ok {
			continue
		}
		drop := map[*menu.Item]bool{}
		for _, it := range r.items {
			if it == parent || it.SubCatID != parent.SubCatID || !foldable(it) {
				continue
			}
			if samePrice(it.Price, ref) {
				parent.Options[0].Choices = append(parent.Options[0].Choices, menu.Choice{
					Title:       it.Title,
					Description: it.Description,
					Price:       ref,
				})
				drop[it] = true
			}
		}
		r.remove(drop)
	}
}

func referencePrice(groups []menu.OptionGroup) (float64, bool) {
	for _, g := range groups {
		if len(g.Choices) > 0 {
			return g.Choices[0].Price, true
		}
	}
	return 0, false
}

// forceSharedVariants puts a subcategory's recorded ladder on all of its
// items, overriding whatever they carried.
func (r *run) forceSharedVariants(subcats []menu.SubCategory) {
	for _, sc := range subcats {
		ladder, ok := r.shared[sc.ID]
		if !ok || len(ladder) == 0 {
			continue
		}
		for _, it := range r.items {
			if it.SubCatID == sc.ID {
				it.SetVariants(ladder)
			}
		}
	}
}

// foldTitlePatternParents treats "... BY THE SLICE" / "CHOOSE ONE" items as
// option parents and folds their same-priced siblings into them.
func (r *run) foldTitlePatternParents(subcats []menu.SubCategory) {
	for _, sc := range subcats {
		candidates := append([]*menu.Item(nil), r.items...)
		for _, parent := range candidates {
			if parent.SubCatID != sc.ID || !parentTitle.MatchString(parent.Title) {
				continue
			}
			if !r.present(parent) || !foldable(parent) {
				continue
			}
			ref := parent.Price
			var choices []menu.Choice
			drop := map[*menu.Item]bool{}
			for _, it := range r.items {
				if it == parent || it.SubCatID != sc.ID || !foldable(it) {
					continue
				}
				if samePrice(it.Price, ref) {
					choices = append(choices, menu.Choice{
						Title:       it.Title,
						Description: it.Description,
						Price:       ref,
					})
					drop[it] = true
				}
			}
			if len(choices) == 0 {
				continue
			}
			parent.Options = []menu.OptionGroup{chooseOne(choices)}
			parent.OptionsAvailable = 1
			parent.Price = 0
			r.remove(drop)
		}
	}
}
