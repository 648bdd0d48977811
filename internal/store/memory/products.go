package memory

import (
	"context"

	"spanco/internal/domain/catalog"
)

type productStore struct{ db *DB }

func productKey(p *catalog.Product, field string) sortKey {
	switch field {
	case "PCode":
		return sortKey{s: p.PCode}
	case "description":
		return sortKey{s: p.Description}
	default:
		return entityKey(p.Name, p.CreatedAt, p.UpdatedAt, field)
	}
}

func (s *productStore) List(_ context.Context, q catalog.ProductQuery) ([]*catalog.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]*catalog.Product, 0)
	for _, p := range s.db.products {
		if catalog.MatchesProduct(q.Filter, p) {
			matched = append(matched, p)
		}
	}
	sortItems(matched, q.Sort, productKey)

	if q.Skip >= len(matched) {
		return []*catalog.Product{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	out := make([]*catalog.Product, len(matched))
	for i, p := range matched {
		out[i] = clone(p)
	}
	return out, nil
}

func (s *productStore) Count(_ context.Context, f catalog.ProductFilter) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := 0
	for _, p := range s.db.products {
		if catalog.MatchesProduct(f, p) {
			n++
		}
	}
	return n, nil
}

func (s *productStore) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return clone(p), nil
}

func (s *productStore) GetByPCode(_ context.Context, pcode string) (*catalog.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.products {
		if p.PCode == pcode {
			return clone(p), nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *productStore) Create(_ context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.taken(p) {
		return duplicate("PCode %q", p.PCode)
	}
	p.ID = newID()
	p.CreatedAt = s.db.now()
	p.UpdatedAt = p.CreatedAt
	s.db.products[p.ID] = idsOnly(p)
	return nil
}

func (s *productStore) Update(_ context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.products[p.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if s.taken(p) {
		return duplicate("PCode %q", p.PCode)
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = s.db.now()
	s.db.products[p.ID] = idsOnly(p)
	return nil
}

func (s *productStore) taken(p *catalog.Product) bool {
	for id, other := range s.db.products {
		if id != p.ID && other.PCode == p.PCode {
			return true
		}
	}
	return false
}

func (s *productStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.db.products, id)
	return nil
}

func clone(p *catalog.Product) *catalog.Product {
	cp := *p
	cp.Image = append([]string{}, p.Image...)
	cp.Categories = append([]catalog.Ref{}, p.Categories...)
	cp.TechnicalSpecification = append([]catalog.TechSpec{}, p.TechnicalSpecification...)
	if p.SubCategory != nil {
		ref := *p.SubCategory
		cp.SubCategory = &ref
	}
	if p.LabCategory != nil {
		ref := *p.LabCategory
		cp.LabCategory = &ref
	}
	return &cp
}

// idsOnly strips expanded reference names before storing.
func idsOnly(p *catalog.Product) *catalog.Product {
	cp := clone(p)
	for i, c := range cp.Categories {
		cp.Categories[i] = catalog.Ref{ID: c.ID}
	}
	if cp.SubCategory != nil {
		cp.SubCategory = &catalog.Ref{ID: cp.SubCategory.ID}
	}
	if cp.LabCategory != nil {
		cp.LabCategory = &catalog.Ref{ID: cp.LabCategory.ID}
	}
	return cp
}
