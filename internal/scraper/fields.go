package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
)

// Placeholders substituted when a field pattern finds nothing. A missing
// field never fails the whole extraction; partial information beats none.
const (
	priceUnknown = "price unknown"
	nameUnknown  = "Unknown"
)

const maxNameLen = 50

// pricePatterns is evaluated in priority order, first match wins. The order
// matters: "$10.00 USD Monthly" must beat a stray "$5.00 USD" further down
// the page.
var pricePatterns = []struct {
	re     *regexp.Regexp
	format func(amount string) string
}{
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*)\s*USD\s*Monthly`), dollarMonthly},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*)\s*USD`), dollarMonthly},
	{regexp.MustCompile(`(?i)Starting from[^$]*\$(\d+\.?\d*)`), dollarMonthly},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*/\s*month`), dollarMonthly},
}

func dollarMonthly(amount string) string {
	return "$" + amount + "/mo"
}

// specPatterns tries multiple phrasings per component. Matched components
// are joined with "/" preserving CPU, RAM, disk, traffic order.
var specPatterns = []struct {
	re     *regexp.Regexp
	suffix string
}{
	{regexp.MustCompile(`(?i)vCPU\s*(?:Core\s*)?(\d+)|(\d+)\s*Core`), "C"},
	{regexp.MustCompile(`(?i)RAM\s*(\d+)\s*GB|(\d+)\s*GB\s*RAM`), "G"},
	{regexp.MustCompile(`(?i)Disk\s*(\d+)\s*GB|(\d+)\s*GB\s*SSD`), "G"},
	{regexp.MustCompile(`(?i)Traffic\s*(\d+)\s*TB|(\d+)\s*TB`), "T"},
}

var outOfStockPhrases = []string{
	"0 available",
	"out of stock",
	"sold out",
	"0 可用",
	"缺货",
	"已售罄",
}

var inStockPhrases = []string{
	"in stock",
	"add to cart",
	"order now",
	"有货",
	"立即购买",
}

var merchantSeparators = []string{" - ", " | ", "–", "—"}

var hostPrefixes = []string{"www.", "my.", "app."}

// parseSingle extracts one record from a single product page. Every field is
// derived independently; a miss in one degrades to its placeholder without
// touching the others.
func parseSingle(html, rawURL, host string) models.Record {
	rec := models.Record{
		Merchant: merchantFromHost(host),
		Name:     nameFromSlug(rawURL),
		Price:    priceFrom(html),
		Specs:    specsFrom(html),
		InStock:  stockFrom(html),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if m := merchantFromTitle(doc); m != "" {
			rec.Merchant = m
		}
		if rec.Name == "" {
			rec.Name = nameFromHeading(doc)
		}
	}
	if rec.Name == "" {
		rec.Name = nameUnknown
	}
	return rec
}

// merchantFromTitle takes the trailing segment of the page title, split on
// the separators storefronts put between product and shop name. Long tails
// are rejected as likely being the product itself.
func merchantFromTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	for _, sep := range merchantSeparators {
		if !strings.Contains(title, sep) {
			continue
		}
		parts := strings.Split(title, sep)
		tail := strings.TrimSpace(parts[len(parts)-1])
		if tail != "" && len([]rune(tail)) <= 30 {
			return tail
		}
	}
	return ""
}

func merchantFromHost(host string) string {
	for _, prefix := range hostPrefixes {
		host = strings.TrimPrefix(host, prefix)
	}
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	return strings.ToUpper(host)
}

// nameFromSlug derives the product name from a storefront product slug
// (".../store/<slug>"). Returns "" when the URL has no such segment.
func nameFromSlug(rawURL string) string {
	if !strings.Contains(rawURL, "/store/") {
		return ""
	}
	slug := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if i := strings.Index(slug, "?"); i >= 0 {
		slug = slug[:i]
	}
	if slug == "" {
		return ""
	}
	return truncate(titleCase(strings.ReplaceAll(slug, "-", " ")), maxNameLen)
}

func nameFromHeading(doc *goquery.Document) string {
	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	if h1 == "" {
		return ""
	}
	return truncate(h1, maxNameLen)
}

func priceFrom(html string) string {
	for _, p := range pricePatterns {
		if m := p.re.FindStringSubmatch(html); m != nil {
			return p.format(m[1])
		}
	}
	return priceUnknown
}

func specsFrom(html string) string {
	var parts []string
	for _, sp := range specPatterns {
		m := sp.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		n := m[1]
		if n == "" {
			n = m[2]
		}
		parts = append(parts, n+sp.suffix)
	}
	return strings.Join(parts, "/")
}

// stockFrom scans for out-of-stock phrases first, then in-stock phrases.
// When neither set matches, the page is treated as in stock. That default is
// deliberate and load-bearing; do not change it without a product decision.
func stockFrom(html string) bool {
	lower := strings.ToLower(html)
	for _, kw := range outOfStockPhrases {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range inStockPhrases {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
