package tabletki

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"

	"deliky-backend/lib/restyutil"
	"deliky-backend/lib/telemetry"
)

const DefaultBaseUrl = "https://tabletki.ua"

const searchPath = "/uk/search/"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl when empty
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseStr := opts.BaseUrl
	if baseStr == "" {
		baseStr = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(baseStr)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseStr)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept-language", "uk-UA,uk;q=0.9,ru;q=0.8,en-US;q=0.7,en;q=0.6")
	client.SetTimeout(time.Second * 10)

	telemetry.InstrumentResty(client, "scrapers/tabletki/http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Search fetches the search results page for `drug`, optionally scoped
// to `city`, and extracts listings from it. query values are
// percent-encoded by resty.
func (c *Client) Search(ctx context.Context, drug, city string) ([]Listing, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	req := c.Http.R().
		SetContext(ctx).
		SetQueryParam("q", drug)
	if city != "" {
		req.SetQueryParam("city", city)
	}

	res, err := req.Get(searchPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search page")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("search page returned %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search page html")
		return nil, err
	}

	return ExtractListings(ctx, doc, c.BaseUrl, city), nil
}
