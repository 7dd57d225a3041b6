package tabletki

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"deliky-backend/lib/htmlutil"
	"deliky-backend/lib/textutil"
)

// Listing is one normalized search result. immutable once produced.
type Listing struct {
	Name        string
	Price       string
	Pharmacy    string
	Description string
	ImageURL    string
	Link        string
	City        string
}

const (
	defaultName     = "unknown"
	defaultPrice    = "Ціна невідома"
	defaultPharmacy = "Аптека невідома"
)

// tabletki.ua regenerates its markup periodically, so nothing here
// assumes a single stable layout. detection and extraction both walk
// an ordered list of candidates and take the first hit.

var noResultsSelectors = []string{
	".search-result-empty",
	".no-results",
	".empty-results",
}

type containerStrategy struct {
	name string
	find func(doc *goquery.Document) *goquery.Selection
}

var containerStrategies = []containerStrategy{
	{name: "structural", find: findByStructuralSelectors},
	{name: "class-token", find: findByClassToken},
	{name: "data-id", find: findByDataIdentifier},
}

var structuralSelectors = []string{
	".search-result-item",
	".product-item",
	".med-item",
	".result-item",
	".item",
}

func findByStructuralSelectors(doc *goquery.Document) *goquery.Selection {
	for _, selector := range structuralSelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

var classTokens = []string{"item", "product", "result"}

func findByClassToken(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok {
			return false
		}
		for _, token := range classTokens {
			if strings.Contains(class, token) {
				return true
			}
		}
		return false
	})
	if sel.Length() > 0 {
		return sel
	}
	return nil
}

func findByDataIdentifier(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find("div[data-id], li[data-id]")
	if sel.Length() > 0 {
		return sel
	}
	return nil
}

// one extractable field: sub-element selectors tried first, then
// attributes on the container itself, then the fallback value.
type fieldSpec struct {
	selectors []string
	attrs     []string
	fallback  string
}

var nameField = fieldSpec{
	selectors: []string{".item-title", ".product-name", ".title", "h3", "h2", ".name"},
	attrs:     []string{"data-name", "title"},
	fallback:  defaultName,
}

var priceField = fieldSpec{
	selectors: []string{".price", ".cost", ".product-price", ".money"},
	attrs:     []string{"data-price"},
	fallback:  defaultPrice,
}

var pharmacyField = fieldSpec{
	selectors: []string{".pharmacy-title", ".store-name", ".pharmacy-name", ".pharmacy", ".store"},
	attrs:     []string{"data-pharmacy", "data-store"},
	fallback:  defaultPharmacy,
}

var descriptionField = fieldSpec{
	selectors: []string{".description", ".product-desc", ".details", ".info"},
}

func (f fieldSpec) resolve(item *goquery.Selection) string {
	for _, selector := range f.selectors {
		node := item.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		text := textutil.CleanText(htmlutil.RemoveNonPrintable(htmlutil.GetText(node.Nodes[0])))
		if text != "" {
			return text
		}
	}
	for _, attr := range f.attrs {
		value, ok := item.Attr(attr)
		if !ok {
			continue
		}
		value = textutil.CleanText(value)
		if value != "" {
			return value
		}
	}
	return f.fallback
}

// ExtractListings turns a search results document into normalized
// listings, in document order. a malformed item is logged and skipped,
// the rest of the batch is unaffected.
func ExtractListings(ctx context.Context, doc *goquery.Document, base *url.URL, city string) []Listing {
	ctx, span := tracer.Start(ctx, "ExtractListings")
	defer span.End()

	for _, selector := range noResultsSelectors {
		if doc.Find(selector).Length() > 0 {
			slog.DebugContext(ctx, "no results marker present", "selector", selector)
			return nil
		}
	}

	var containers *goquery.Selection
	for _, strategy := range containerStrategies {
		containers = strategy.find(doc)
		if containers != nil {
			slog.DebugContext(
				ctx, "container strategy matched",
				"strategy", strategy.name,
				"count", containers.Length(),
			)
			break
		}
	}
	if containers == nil {
		return nil
	}

	var listings []Listing
	containers.Each(func(i int, item *goquery.Selection) {
		listing, ok := extractItem(ctx, item, base, city)
		if !ok {
			slog.WarnContext(ctx, "skipping malformed result item", "index", i)
			return
		}
		listings = append(listings, listing)
	})
	return listings
}

func extractItem(ctx context.Context, item *goquery.Selection, base *url.URL, city string) (listing Listing, ok bool) {
	// markup drift has produced panics out of selector edge cases
	// before; one bad item must not take down the batch
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while extracting result item", "panic", r)
			ok = false
		}
	}()

	listing = Listing{
		Name:        nameField.resolve(item),
		Price:       priceField.resolve(item),
		Pharmacy:    pharmacyField.resolve(item),
		Description: descriptionField.resolve(item),
		ImageURL:    item.Find("img").First().AttrOr("src", ""),
		Link:        htmlutil.AbsoluteURL(base, item.Find("a").First().AttrOr("href", "")),
		City:        city,
	}
	return listing, true
}

// DedupeByName keeps the first listing per drug name, preserving
// document order. the drug selection flow offers one button per name.
func DedupeByName(listings []Listing) []Listing {
	seen := map[string]bool{}
	var out []Listing
	for _, l := range listings {
		key := textutil.NormalizeName(l.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
