package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PuerkitoBio/goquery"
)

func TestPricePatternOrderWins(t *testing.T) {
	// Both patterns match somewhere on the page; the higher-priority
	// "USD Monthly" form must win even though "$5.00 USD" appears first.
	html := `<div>$5.00 USD setup fee</div><div>$10.00 USD Monthly</div>`
	assert.Equal(t, "$10.00/mo", priceFrom(html))
}

func TestPriceForms(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"usd monthly", "Price: $12.50 USD Monthly", "$12.50/mo"},
		{"usd", "only $7 USD", "$7/mo"},
		{"starting from", "Starting from just $3.99 today", "$3.99/mo"},
		{"per month", "15.00 / month", "$15.00/mo"},
		{"no fraction", "$10 USD Monthly", "$10/mo"},
		{"missing", "contact sales", "price unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priceFrom(tt.html))
		})
	}
}

func TestSpecsFrom(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"full", "vCPU 2, RAM 4 GB, Disk 80 GB, Traffic 10 TB", "2C/4G/80G/10T"},
		{"alternate phrasings", "4 Core / 8 GB RAM / 160 GB SSD", "4C/8G/160G"},
		{"cpu only", "8 Core beast", "8C"},
		{"order preserved", "Traffic 1 TB with RAM 2 GB", "2G/1T"},
		{"none", "a plain page", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, specsFrom(tt.html))
		})
	}
}

func TestStockFrom(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"out of stock", "This item is Out of Stock", false},
		{"sold out", "SOLD OUT!", false},
		{"zero available", "0 Available", false},
		{"localized out", "很抱歉，已售罄", false},
		{"in stock", "In stock, ships today", true},
		{"add to cart", "<button>Add to Cart</button>", true},
		{"localized in", "现货 有货", true},
		// No phrase from either set: availability is assumed.
		{"no signal defaults true", "<html><body>hello</body></html>", true},
		// Negative phrases win even when positive ones are present too.
		{"negative beats positive", "Add to cart (out of stock)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stockFrom(tt.html))
		})
	}
}

func TestMerchantFromHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.greencloudvps.com", "GREENCLOUDVPS"},
		{"my.racknerd.com", "RACKNERD"},
		{"app.misaka.io", "MISAKA"},
		{"bandwagonhost.com", "BANDWAGONHOST"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, merchantFromHost(tt.host))
	}
}

func TestMerchantFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"dash separator", "Budget KVM VPS - HostBrr", "HostBrr"},
		{"pipe separator", "Cart | GreenCloud", "GreenCloud"},
		{"em dash", "Plans — CloudCone", "CloudCone"},
		{"no separator", "Just a product", ""},
		{"long tail rejected", "VPS - " + strings.Repeat("x", 40), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<title>" + tt.title + "</title>"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, merchantFromTitle(doc))
		})
	}
}

func TestNameFromSlug(t *testing.T) {
	assert.Equal(t, "Budget Kvm Sale", nameFromSlug("https://my.host.com/store/budget-kvm-sale"))
	assert.Equal(t, "Budget Kvm", nameFromSlug("https://my.host.com/store/budget-kvm?id=3"))
	assert.Equal(t, "", nameFromSlug("https://my.host.com/cart.php?a=add"))

	long := "https://my.host.com/store/" + strings.Repeat("very-long-", 10)
	assert.Len(t, nameFromSlug(long), 50)
}

func TestParseSingle(t *testing.T) {
	html := `<html><head><title>Special KVM - HostBrr</title></head><body>
		<h1>Special KVM 2G</h1>
		<p>$6.00 USD Monthly</p>
		<p>vCPU 2 / RAM 2 GB / Disk 40 GB</p>
		<button>Order Now</button>
	</body></html>`

	rec := parseSingle(html, "https://my.hostbrr.com/cart.php?a=view", "my.hostbrr.com")

	assert.Equal(t, "HostBrr", rec.Merchant)
	assert.Equal(t, "Special KVM 2G", rec.Name)
	assert.Equal(t, "$6.00/mo", rec.Price)
	assert.Equal(t, "2C/2G/40G", rec.Specs)
	assert.True(t, rec.InStock)
	assert.Empty(t, rec.URL)
}

func TestParseSinglePlaceholders(t *testing.T) {
	rec := parseSingle("<html><body><p>nothing useful here</p></body></html>",
		"https://www.example.com/page", "www.example.com")

	assert.Equal(t, "EXAMPLE", rec.Merchant)
	assert.Equal(t, "Unknown", rec.Name)
	assert.Equal(t, "price unknown", rec.Price)
	assert.Empty(t, rec.Specs)
	assert.True(t, rec.InStock)
}

func TestParseSingleSlugBeatsHeading(t *testing.T) {
	html := `<html><body><h1>Order Form</h1><p>$9.00 USD</p></body></html>`
	rec := parseSingle(html, "https://my.host.com/store/premium-vps-3", "my.host.com")
	assert.Equal(t, "Premium Vps 3", rec.Name)
}

func TestParseSingleIdempotent(t *testing.T) {
	html := `<html><head><title>KVM - Host</title></head><body>
		<h1>KVM Plan</h1><p>$4.00 USD Monthly</p><p>RAM 1 GB</p><p>sold out</p>
	</body></html>`

	first := parseSingle(html, "https://my.host.com/p", "my.host.com")
	second := parseSingle(html, "https://my.host.com/p", "my.host.com")
	assert.Equal(t, first, second)
}

func TestNameTruncation(t *testing.T) {
	long := strings.Repeat("very long name ", 10)
	html := "<html><body><h1>" + long + "</h1></body></html>"
	rec := parseSingle(html, "https://host.com/p", "host.com")
	assert.Len(t, []rune(rec.Name), 50)
}
