package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
	"github.com/mango082888-bit/tg-stock-monitor/internal/store"
)

const (
	startupDelay = 5 * time.Second
	// Pause between products within one cycle, to avoid hammering origins.
	itemDelay = 3 * time.Second
)

// IntervalPresets are the cycle intervals (seconds) the operator may pick.
var IntervalPresets = []int{30, 60, 120, 300}

// Parser is the extraction entry point the monitor polls through.
type Parser interface {
	ParseProduct(ctx context.Context, url string) ([]models.Record, error)
}

// Event describes one stock transition. Formatting and delivery belong to
// the notification layer, not here.
type Event struct {
	Product models.Product
	Restock bool
	Time    time.Time
}

// Notifier delivers a stock transition event. Delivery failures must stay
// inside the implementation; the monitor never learns about them.
type Notifier interface {
	Notify(ev Event)
}

// Monitor runs the background poll loop over all tracked products.
type Monitor struct {
	store    *store.Store
	parser   Parser
	notifier Notifier

	mu       sync.Mutex
	interval time.Duration
}

func New(st *store.Store, parser Parser, notifier Notifier, interval time.Duration) *Monitor {
	return &Monitor{
		store:    st,
		parser:   parser,
		notifier: notifier,
		interval: interval,
	}
}

// Interval returns the current cycle interval.
func (m *Monitor) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// SetInterval switches the cycle interval to one of the presets. Takes
// effect after the cycle currently sleeping or running.
func (m *Monitor) SetInterval(seconds int) bool {
	for _, preset := range IntervalPresets {
		if seconds == preset {
			m.mu.Lock()
			m.interval = time.Duration(seconds) * time.Second
			m.mu.Unlock()
			return true
		}
	}
	return false
}

// Start runs the poll loop until ctx is cancelled. Products are checked one
// at a time; nothing in a single product's failure may stop the loop.
func (m *Monitor) Start(ctx context.Context) {
	log.Printf("Monitor started, checking every %v", m.Interval())

	if !sleep(ctx, startupDelay) {
		return
	}
	for {
		m.checkAll(ctx)
		if !sleep(ctx, m.Interval()) {
			return
		}
	}
}

func (m *Monitor) checkAll(ctx context.Context) {
	for _, p := range m.store.Products() {
		m.checkProduct(ctx, p.ID)
		if !sleep(ctx, itemDelay) {
			return
		}
	}
}

// checkProduct polls one product and fires a notification when the stock
// flag flipped. On extraction failure the stored record is left entirely
// untouched: no timestamp update, no notification, just a log line.
func (m *Monitor) checkProduct(ctx context.Context, id int) {
	p, ok := m.store.Product(id)
	if !ok {
		return
	}

	recs, err := m.parser.ParseProduct(ctx, p.URL)
	if err != nil {
		log.Printf("Check failed for product %d (%s): %v", p.ID, p.URL, err)
		return
	}
	rec, ok := pickRecord(recs, p.URL)
	if !ok {
		return
	}

	now := time.Now()
	prev, updated, ok := m.store.ApplyCheck(id, rec, now)
	if !ok {
		return
	}

	switch {
	case !prev.InStock && updated.InStock:
		log.Printf("Restock: %s", updated.Name)
		m.notifier.Notify(Event{Product: updated, Restock: true, Time: now})
	case prev.InStock && !updated.InStock:
		log.Printf("Stock-out: %s", updated.Name)
		m.notifier.Notify(Event{Product: updated, Restock: false, Time: now})
	}
}

// CheckNow runs a single on-demand check for the /check command. It shares
// the store with the background loop, so the two can race safely on the same
// product. Manual checks update state but never notify.
func (m *Monitor) CheckNow(ctx context.Context, id int) (models.Product, error) {
	p, ok := m.store.Product(id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %d not found", id)
	}

	recs, err := m.parser.ParseProduct(ctx, p.URL)
	if err != nil {
		return models.Product{}, fmt.Errorf("check product %d: %w", id, err)
	}
	rec, ok := pickRecord(recs, p.URL)
	if !ok {
		return models.Product{}, fmt.Errorf("check product %d: empty result", id)
	}

	_, updated, ok := m.store.ApplyCheck(id, rec, time.Now())
	if !ok {
		return models.Product{}, fmt.Errorf("product %d removed during check", id)
	}
	return updated, nil
}

// pickRecord chooses the record that applies to a tracked product. For
// multi-record results the record whose URL matches the tracked one wins,
// falling back to the first record.
func pickRecord(recs []models.Record, productURL string) (models.Record, bool) {
	if len(recs) == 0 {
		return models.Record{}, false
	}
	for _, rec := range recs {
		if rec.URL != "" && rec.URL == productURL {
			return rec, true
		}
	}
	return recs[0], true
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
