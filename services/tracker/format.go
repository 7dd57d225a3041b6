package tracker

import (
	"fmt"
	"strings"

	"deliky-backend/lib/scrapers/tabletki"
)

const maxNotifiedListings = 3

// FormatAppeared is the text of a scheduler notification: the drug
// just showed up in the tracked city.
func FormatAppeared(drug, city string, listings []tabletki.Listing) string {
	return formatAvailability(
		fmt.Sprintf("💊 *%s* з'явився у місті *%s*!", drug, city),
		listings,
	)
}

// FormatAvailable is the text of an on-demand /check hit.
func FormatAvailable(drug, city string, listings []tabletki.Listing) string {
	return formatAvailability(
		fmt.Sprintf("💊 *%s* доступний у місті *%s*!", drug, city),
		listings,
	)
}

func formatAvailability(header string, listings []tabletki.Listing) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	for i, listing := range listings {
		if i >= maxNotifiedListings {
			break
		}
		fmt.Fprintf(
			&b, "%d. %s\n   💰 %s\n   🏥 %s\n\n",
			i+1, listing.Name, listing.Price, listing.Pharmacy,
		)
	}
	return b.String()
}
