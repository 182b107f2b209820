package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
)

const (
	productsFile = "products.json"
	targetsFile  = "targets.json"
)

// Store owns the tracked-product and notification-target lists. Every read
// and mutation goes through its mutex; both the monitor loop and the command
// handlers must never touch the underlying files directly.
//
// Each list is persisted as one JSON array, rewritten in full after every
// mutation.
type Store struct {
	mu       sync.Mutex
	dir      string
	products []models.Product
	targets  []models.Target
}

// New opens the store rooted at dir, creating it if needed. Missing or
// unparsable files fall back to empty lists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir}
	loadJSON(filepath.Join(dir, productsFile), &s.products)
	loadJSON(filepath.Join(dir, targetsFile), &s.targets)

	log.Printf("Store loaded: %d products, %d targets", len(s.products), len(s.targets))
	return s, nil
}

func loadJSON(path string, v interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Ignoring unparsable state file %s: %v", path, err)
	}
}

// saveLocked rewrites one state file in full. A write failure is logged and
// otherwise ignored: the in-memory lists stay authoritative and the next
// successful save catches the file up.
func (s *Store) saveLocked(name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Marshal %s: %v", name, err)
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		log.Printf("Write %s: %v", name, err)
	}
}

// Products returns a copy of the tracked-product list.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// Product returns the tracked product with the given id.
func (s *Store) Product(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddProduct stores a new product built from an extracted record, assigning
// the next identifier (max existing + 1, never reusing gaps).
func (s *Store) AddProduct(url, coupon string, rec models.Record, now time.Time) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := 0
	for _, p := range s.products {
		if p.ID > id {
			id = p.ID
		}
	}

	p := models.Product{
		ID:        id + 1,
		URL:       url,
		Name:      rec.Name,
		Merchant:  rec.Merchant,
		Price:     rec.Price,
		Specs:     rec.Specs,
		Coupon:    coupon,
		InStock:   rec.InStock,
		LastCheck: now.Format(models.TimeFormat),
	}
	s.products = append(s.products, p)
	s.saveLocked(productsFile, s.products)
	return p
}

// ApplyCheck merges a successful check result into the stored product and
// persists. It returns the product as it was before the merge, so callers
// can diff the stock flag for transition events.
func (s *Store) ApplyCheck(id int, rec models.Record, now time.Time) (prev models.Product, updated models.Product, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			prev = s.products[i]
			s.products[i].Apply(rec, now)
			s.saveLocked(productsFile, s.products)
			return prev, s.products[i], true
		}
	}
	return models.Product{}, models.Product{}, false
}

// RemoveProduct deletes the product with the given id.
func (s *Store) RemoveProduct(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.saveLocked(productsFile, s.products)
			return p, true
		}
	}
	return models.Product{}, false
}

// Targets returns a copy of the notification-target list.
func (s *Store) Targets() []models.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Target(nil), s.targets...)
}

// AddTarget registers a destination chat. Duplicate chat ids are rejected.
func (s *Store) AddTarget(t models.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.targets {
		if existing.ChatID == t.ChatID {
			return false
		}
	}
	s.targets = append(s.targets, t)
	s.saveLocked(targetsFile, s.targets)
	return true
}

// RemoveTarget deletes the target at the given zero-based position.
func (s *Store) RemoveTarget(idx int) (models.Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.targets) {
		return models.Target{}, false
	}
	t := s.targets[idx]
	s.targets = append(s.targets[:idx], s.targets[idx+1:]...)
	s.saveLocked(targetsFile, s.targets)
	return t, true
}
