package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
)

var cardPriceRe = regexp.MustCompile(`\$(\d+\.?\d*)`)

// Specs on listing cards are terser than on product pages; only CPU and RAM
// are reliably present.
var cardSpecPatterns = []struct {
	re     *regexp.Regexp
	suffix string
}{
	{regexp.MustCompile(`(?i)vCPU[^0-9]*(\d+)|(\d+)\s*Core`), "C"},
	{regexp.MustCompile(`(?i)RAM[^0-9]*(\d+)`), "G"},
}

// parseCategory extracts one record per product card. All records share one
// merchant derived from the page. Cards without a heading yield no name and
// are dropped rather than emitted as placeholders.
func parseCategory(html, host string) []models.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	merchant := merchantFromTitle(doc)
	if merchant == "" {
		merchant = merchantFromHost(host)
	}

	var recs []models.Record
	doc.Find("[class*='package']").Each(func(_ int, card *goquery.Selection) {
		// Only the innermost heading-bearing fragment counts as a card;
		// wrappers sharing the class would otherwise duplicate it.
		if !hasHeading(card) || card.Find("[class*='package']").FilterFunction(func(_ int, inner *goquery.Selection) bool {
			return hasHeading(inner)
		}).Length() > 0 {
			return
		}

		name := strings.TrimSpace(card.Find("h1, h2, h3").First().Text())
		if name == "" {
			return
		}

		recs = append(recs, models.Record{
			Merchant: merchant,
			Name:     truncate(name, maxNameLen),
			Price:    cardPrice(card),
			Specs:    cardSpecs(card),
			InStock:  cardStock(card),
			URL:      cardLink(card, host),
		})
	})
	return recs
}

func hasHeading(sel *goquery.Selection) bool {
	return sel.Find("h1, h2, h3").Length() > 0
}

func cardPrice(card *goquery.Selection) string {
	if m := cardPriceRe.FindStringSubmatch(card.Text()); m != nil {
		return dollarMonthly(m[1])
	}
	return priceUnknown
}

func cardSpecs(card *goquery.Selection) string {
	text := card.Text()
	var parts []string
	for _, sp := range cardSpecPatterns {
		m := sp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n := m[1]
		if len(m) > 2 && n == "" {
			n = m[2]
		}
		parts = append(parts, n+sp.suffix)
	}
	return strings.Join(parts, "/")
}

// cardStock only trusts an explicit exhausted-quantity marker; anything else
// reads as available.
func cardStock(card *goquery.Selection) bool {
	return !strings.Contains(strings.ToLower(card.Text()), "0 available")
}

func cardLink(card *goquery.Selection, host string) string {
	link := card.Find("a[class*='order']").First()
	if link.Length() == 0 {
		link = card.Find("a[href]").First()
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://" + host + href
}
