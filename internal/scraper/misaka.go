package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
)

// The Misaka storefront has no per-product pages: one plan is sold across a
// fixed set of regions, each behind its own client-rendered create page. An
// input URL like .../iaas/vm/create/hkg12/s3n-1c1g is expanded into one
// derived URL per region and extracted independently.

const misakaHostMarker = "misaka"

const misakaPlanURL = "https://app.misaka.io/iaas/vm/create/%s/%s"

const misakaDefaultPlan = "s3n-1c1g"

type misakaRegion struct {
	code  string
	label string
}

var misakaRegions = []misakaRegion{
	{"sin03", "Singapore SIN03"},
	{"nrt04", "Tokyo NRT04"},
	{"hkg12", "Hong Kong HKG12"},
	{"tpe01", "Taipei TPE01"},
}

// Plan slugs encode the specs: s3n-1c1g is 1 CPU / 1 GB.
var misakaPlanRe = regexp.MustCompile(`(?i)(\d+)c(\d+)g`)

var misakaPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)HK\$\s*([\d.]+)`),
	regexp.MustCompile(`(?i)\$\s*([\d.]+)\s*/\s*mo`),
	regexp.MustCompile(`(?i)\$\s*([\d.]+)`),
}

var misakaUnavailablePhrases = []string{
	"out of stock",
	"out_of_stock",
	"sold out",
	"currently unavailable",
}

// parseMisaka expands the plan across all regions. Regions whose fetch fails
// are omitted from the result, not reported; only an empty aggregate is an
// error.
func (p *Parser) parseMisaka(ctx context.Context, u *url.URL) ([]models.Record, error) {
	plan := misakaPlanFromURL(u)

	var recs []models.Record
	for _, region := range misakaRegions {
		regionURL := fmt.Sprintf(misakaPlanURL, region.code, plan)
		html, err := p.fetcher.Fetch(ctx, regionURL)
		if err != nil {
			continue
		}
		recs = append(recs, misakaRecord(html, regionURL, region, plan))
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("no misaka region reachable for plan %s", plan)
	}
	return recs, nil
}

func misakaPlanFromURL(u *url.URL) string {
	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	return misakaDefaultPlan
}

func misakaRecord(html, regionURL string, region misakaRegion, plan string) models.Record {
	specs := ""
	if m := misakaPlanRe.FindStringSubmatch(plan); m != nil {
		specs = m[1] + "C/" + m[2] + "G"
	}

	price := priceUnknown
	for _, re := range misakaPricePatterns {
		if m := re.FindStringSubmatch(html); m != nil {
			price = "HK$" + m[1] + "/mo"
			break
		}
	}

	inStock := true
	lower := strings.ToLower(html)
	for _, kw := range misakaUnavailablePhrases {
		if strings.Contains(lower, kw) {
			inStock = false
			break
		}
	}

	return models.Record{
		Merchant: "Misaka",
		Name:     region.label + " " + plan,
		Price:    price,
		Specs:    specs,
		InStock:  inStock,
		URL:      regionURL,
	}
}
