package tabletki

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"deliky-backend/lib/telemetry"
)

func parseDoc(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func baseUrl(t *testing.T) *url.URL {
	base, err := url.Parse(DefaultBaseUrl)
	if err != nil {
		t.Fatal(err)
	}
	return base
}

const structuralMarkup = `
<html><body>
<div class="search-results">
	<div class="search-result-item">
		<h3 class="item-title">Парацетамол 500 мг</h3>
		<span class="price">45.50 грн</span>
		<span class="pharmacy-title">Аптека Доброго Дня</span>
		<div class="description">таблетки №10</div>
		<img src="/images/paracetamol.jpg">
		<a href="/uk/product/paracetamol">детальніше</a>
	</div>
	<div class="search-result-item">
		<h3 class="item-title">Парацетамол-Дарниця</h3>
		<span class="price">32.00 грн</span>
		<span class="pharmacy-title">Подорожник</span>
	</div>
</div>
</body></html>`

func TestExtractStructuralSelectors(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/scrapers/tabletki")
	defer cleanup()
	ctx := context.Background()

	listings := ExtractListings(ctx, parseDoc(t, structuralMarkup), baseUrl(t), "Київ")
	require.Len(t, listings, 2)

	require.Equal(t, Listing{
		Name:        "Парацетамол 500 мг",
		Price:       "45.50 грн",
		Pharmacy:    "Аптека Доброго Дня",
		Description: "таблетки №10",
		ImageURL:    "/images/paracetamol.jpg",
		Link:        "https://tabletki.ua/uk/product/paracetamol",
		City:        "Київ",
	}, listings[0])

	// document order is preserved
	require.Equal(t, "Парацетамол-Дарниця", listings[1].Name)
	require.Equal(t, "Подорожник", listings[1].Pharmacy)
	require.Empty(t, listings[1].Link)
}

func TestExtractNoResultsMarker(t *testing.T) {
	ctx := context.Background()

	markup := `<html><body>
		<div class="no-results">Нічого не знайдено</div>
		<div class="search-result-item"><h3>stale cached card</h3></div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Empty(t, listings)
}

func TestExtractNothingMatches(t *testing.T) {
	ctx := context.Background()

	markup := `<html><body><p>just a paragraph</p><span class="x">y</span></body></html>`
	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Empty(t, listings)
}

func TestExtractFieldDefaults(t *testing.T) {
	ctx := context.Background()

	// first card has no recognizable name anywhere, second is fine;
	// both must come through
	markup := `<html><body>
		<div class="search-result-item">
			<span class="price">12 грн</span>
		</div>
		<div class="search-result-item">
			<h2>Ібупрофен</h2>
		</div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "Львів")
	require.Len(t, listings, 2)
	require.Equal(t, "unknown", listings[0].Name)
	require.Equal(t, "12 грн", listings[0].Price)
	require.Equal(t, "Аптека невідома", listings[0].Pharmacy)
	require.Equal(t, "Ібупрофен", listings[1].Name)
	require.Equal(t, "Ціна невідома", listings[1].Price)
}

func TestExtractAttributeFallback(t *testing.T) {
	ctx := context.Background()

	markup := `<html><body>
		<div class="search-result-item" data-name="Цитрамон" data-price="19.90" data-pharmacy="АНЦ">
		</div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Len(t, listings, 1)
	require.Equal(t, "Цитрамон", listings[0].Name)
	require.Equal(t, "19.90", listings[0].Price)
	require.Equal(t, "АНЦ", listings[0].Pharmacy)
}

func TestExtractClassTokenStrategy(t *testing.T) {
	ctx := context.Background()

	// none of the structural selectors apply, the "result-ish class
	// token" heuristic has to pick these up
	markup := `<html><body>
		<div class="goods-item-card">
			<h3>Анальгін</h3>
			<span class="cost">25 грн</span>
		</div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Len(t, listings, 1)
	require.Equal(t, "Анальгін", listings[0].Name)
	require.Equal(t, "25 грн", listings[0].Price)
}

func TestExtractDataIdentifierStrategy(t *testing.T) {
	ctx := context.Background()

	markup := `<html><body>
		<ul>
			<li data-id="101"><h3>Нурофен</h3></li>
			<li data-id="102"><h3>Нурофен Форте</h3></li>
		</ul>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Len(t, listings, 2)
	require.Equal(t, "Нурофен", listings[0].Name)
	require.Equal(t, "Нурофен Форте", listings[1].Name)
}

func TestExtractFirstStrategyWins(t *testing.T) {
	ctx := context.Background()

	// structural selector matches one card; the data-id elements must
	// not be merged in
	markup := `<html><body>
		<div class="search-result-item"><h3>Спазмалгон</h3></div>
		<div data-id="55"><h3>не має сюди потрапити</h3></div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Len(t, listings, 1)
	require.Equal(t, "Спазмалгон", listings[0].Name)
}

func TestExtractAbsoluteLinkPreserved(t *testing.T) {
	ctx := context.Background()

	markup := `<html><body>
		<div class="search-result-item">
			<h3>Вітамін D3</h3>
			<a href="https://cdn.tabletki.ua/p/9000">link</a>
		</div>
	</body></html>`

	listings := ExtractListings(ctx, parseDoc(t, markup), baseUrl(t), "")
	require.Len(t, listings, 1)
	require.Equal(t, "https://cdn.tabletki.ua/p/9000", listings[0].Link)
}

func TestDedupeByName(t *testing.T) {
	listings := []Listing{
		{Name: "Парацетамол", Pharmacy: "перша"},
		{Name: "парацетамол ", Pharmacy: "друга"},
		{Name: "Ібупрофен"},
	}
	deduped := DedupeByName(listings)
	require.Len(t, deduped, 2)
	require.Equal(t, "перша", deduped[0].Pharmacy)
	require.Equal(t, "Ібупрофен", deduped[1].Name)
}
