package models

import "time"

// TimeFormat is the timestamp layout used in the persisted documents and in
// chat messages.
const TimeFormat = "2006-01-02 15:04:05"

// Product is a tracked product as stored in products.json.
type Product struct {
	ID        int    `json:"id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Merchant  string `json:"merchant"`
	Price     string `json:"price"`
	Specs     string `json:"specs,omitempty"`
	Coupon    string `json:"coupon,omitempty"`
	InStock   bool   `json:"in_stock"`
	LastCheck string `json:"last_check"`
}

// Target is a notification destination as stored in targets.json.
type Target struct {
	ChatID int64  `json:"chat_id"`
	Title  string `json:"title"`
}

// Record is the result of extracting one product from a page. It is never
// persisted directly; callers merge it into a Product.
type Record struct {
	Merchant string
	Name     string
	Price    string
	Specs    string
	InStock  bool
	// URL is set only on records from multi-product results (category
	// pages and the per-region vendor expansion).
	URL string
}

// Apply merges a freshly extracted record into the product, stamping the
// check time. A check refreshes only the volatile fields; name, merchant and
// specs stay as captured when the product was added.
func (p *Product) Apply(rec Record, now time.Time) {
	p.InStock = rec.InStock
	if rec.Price != "" {
		p.Price = rec.Price
	}
	p.LastCheck = now.Format(TimeFormat)
}
