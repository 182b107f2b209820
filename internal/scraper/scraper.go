package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
)

// Fetcher retrieves the raw markup of a page. Implementations live in
// internal/fetcher; any failure (transport, timeout, navigation) is returned
// as an error and the caller treats it as "no result".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser turns merchant pages into product records. Pages come in three
// shapes: a single product page, a category listing with multiple product
// cards, and the Misaka multi-region plan page which is expanded into one
// derived URL per region.
type Parser struct {
	fetcher Fetcher
}

// NewParser creates a parser backed by the given fetcher.
func NewParser(f Fetcher) *Parser {
	return &Parser{fetcher: f}
}

// ParseProduct fetches and extracts the page at rawURL. Single product pages
// yield exactly one record; category and multi-region pages yield one record
// per product, each carrying its own URL.
func (p *Parser) ParseProduct(ctx context.Context, rawURL string) ([]models.Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	if strings.Contains(u.Hostname(), misakaHostMarker) {
		return p.parseMisaka(ctx, u)
	}

	html, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if IsCategoryPage(html) {
		recs := parseCategory(html, u.Hostname())
		if len(recs) == 0 {
			return nil, errors.New("category page yielded no products")
		}
		return recs, nil
	}

	return []models.Record{parseSingle(html, rawURL, u.Hostname())}, nil
}

// IsCategoryPage reports whether the markup looks like a category listing.
// There is no reliable page-type metadata on these storefronts, so the only
// signal is structural repetition: more than one "package"-class fragment.
// A single product page that reuses the class more than once will be
// misclassified; that risk is accepted.
func IsCategoryPage(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find("[class*='package']").Length() > 1
}
