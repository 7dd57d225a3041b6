package tracker

import (
	"context"
	"log/slog"

	"deliky-backend/lib/scrapers/tabletki"
)

// SiteClient is the slice of the tabletki client the checker needs.
type SiteClient interface {
	Search(ctx context.Context, drug, city string) ([]tabletki.Listing, error)
}

// AvailabilityChecker answers "is this drug available in this city
// right now". fail-soft: a fetch or parse failure comes back as an
// empty result, indistinguishable from "not available" — the check
// runs again next cycle anyway.
type AvailabilityChecker struct {
	client SiteClient
}

func NewAvailabilityChecker(client SiteClient) AvailabilityChecker {
	return AvailabilityChecker{client: client}
}

func (c AvailabilityChecker) Check(ctx context.Context, drug, city string) []tabletki.Listing {
	listings, err := c.client.Search(ctx, drug, city)
	if err != nil {
		slog.WarnContext(ctx, "availability check failed", "drug", drug, "city", city, "err", err)
		return nil
	}
	return listings
}
