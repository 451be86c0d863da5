package catalog

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ProductsAPI/pkg/kit"
)

// MemStore keeps products in insertion order. Every method is one critical
// section, so each operation is atomic with respect to the others.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
	newID    func() string
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{
		products: make([]Product, 0, len(seed)),
		newID:    uuid.NewString,
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = s.newID()
		}
		s.products = append(s.products, p)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemStore) Create(_ context.Context, in ProductPatch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := in.apply(Product{ID: s.newID(), InStock: true})
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Get(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, errProductNotFound(id)
	}
	return s.products[i], nil
}

func (s *MemStore) Update(_ context.Context, id string, patch ProductPatch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, errProductNotFound(id)
	}
	s.products[i] = patch.apply(s.products[i])
	return s.products[i], nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errProductNotFound(id)
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

func (s *MemStore) List(_ context.Context, q ListQuery) (Page, error) {
	if q.Page < 1 || q.Limit < 1 {
		return Page{}, kit.Validation(msgBadPagination)
	}

	s.mu.RLock()
	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Category == "" || strings.EqualFold(p.Category, q.Category) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	total := len(matched)
	start := pageOffset(q.Page, q.Limit, total)
	end := start + min(q.Limit, total-start)

	return Page{
		Page:          q.Page,
		Limit:         q.Limit,
		TotalProducts: total,
		TotalPages:    pageCount(total, q.Limit),
		Data:          matched[start:end],
	}, nil
}

// pageOffset returns the index of the first item on page, clamped to total.
// Page and limit may be as large as MaxInt, so the product is only formed
// once it is known to fit.
func pageOffset(page, limit, total int) int {
	if page-1 > total/limit {
		return total
	}
	return min((page-1)*limit, total)
}

func pageCount(total, limit int) int {
	n := total / limit
	if total%limit != 0 {
		n++
	}
	return n
}

func (s *MemStore) Search(_ context.Context, q string) ([]Product, error) {
	if strings.TrimSpace(q) == "" {
		return nil, kit.Validation(msgBadSearch)
	}
	needle := strings.ToLower(q)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalProducts:   len(s.products),
		CountByCategory: make(map[string]int),
	}

	var sum float64
	for _, p := range s.products {
		st.CountByCategory[p.Category]++
		if p.InStock {
			st.TotalInStock++
		} else {
			st.TotalOutOfStock++
		}
		sum += p.Price
	}
	st.TotalCategories = len(st.CountByCategory)

	if st.TotalProducts > 0 {
		st.AveragePrice = roundCents(sum / float64(st.TotalProducts))
	}
	return st, nil
}

// roundCents rounds to 2 decimals, halves away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *MemStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
