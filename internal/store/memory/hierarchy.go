package memory

import (
	"context"

	"spanco/internal/domain/catalog"
)

type categoryStore struct{ db *DB }

func (s *categoryStore) List(_ context.Context, sort catalog.Sort) ([]*catalog.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*catalog.Category, 0, len(s.db.categories))
	for _, c := range s.db.categories {
		cp := *c
		out = append(out, &cp)
	}
	sortItems(out, sort, func(c *catalog.Category, f string) sortKey {
		return entityKey(c.Name, c.CreatedAt, c.UpdatedAt, f)
	})
	return out, nil
}

func (s *categoryStore) GetByID(_ context.Context, id string) (*catalog.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.categories[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *categoryStore) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, c := range s.db.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *categoryStore) RefsByIDs(_ context.Context, ids []string) (map[string]catalog.Ref, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	refs := make(map[string]catalog.Ref, len(ids))
	for _, id := range ids {
		if c, ok := s.db.categories[id]; ok {
			refs[id] = catalog.Ref{ID: c.ID, Name: c.Name, Image: c.Image}
		}
	}
	return refs, nil
}

func (s *categoryStore) Create(_ context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, other := range s.db.categories {
		if other.Name == c.Name {
			return duplicate("name %q", c.Name)
		}
	}
	c.ID = newID()
	c.CreatedAt = s.db.now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	s.db.categories[c.ID] = &cp
	return nil
}

func (s *categoryStore) Update(_ context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.categories[c.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	for id, other := range s.db.categories {
		if id != c.ID && other.Name == c.Name {
			return duplicate("name %q", c.Name)
		}
	}
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = s.db.now()
	cp := *c
	s.db.categories[c.ID] = &cp
	return nil
}

func (s *categoryStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.db.categories, id)
	return nil
}

type subcategoryStore struct{ db *DB }

func subcategoryKey(sub *catalog.Subcategory, f string) sortKey {
	return entityKey(sub.Name, sub.CreatedAt, sub.UpdatedAt, f)
}

func (s *subcategoryStore) List(_ context.Context, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	return s.filter(func(*catalog.Subcategory) bool { return true }, sort), nil
}

func (s *subcategoryStore) ListByCategory(_ context.Context, categoryID string, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	return s.filter(func(sub *catalog.Subcategory) bool { return sub.ParentCategory.ID == categoryID }, sort), nil
}

func (s *subcategoryStore) filter(keep func(*catalog.Subcategory) bool, sort catalog.Sort) []*catalog.Subcategory {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*catalog.Subcategory, 0)
	for _, sub := range s.db.subcategories {
		if keep(sub) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sortItems(out, sort, subcategoryKey)
	return out
}

func (s *subcategoryStore) GetByID(_ context.Context, id string) (*catalog.Subcategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	sub, ok := s.db.subcategories[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *subcategoryStore) FindByName(_ context.Context, name, categoryID string) (*catalog.Subcategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, sub := range s.db.subcategories {
		if sub.Name == name && sub.ParentCategory.ID == categoryID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *subcategoryStore) CountByCategory(_ context.Context, categoryID string) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := 0
	for _, sub := range s.db.subcategories {
		if sub.ParentCategory.ID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *subcategoryStore) RefsByIDs(_ context.Context, ids []string) (map[string]catalog.Ref, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	refs := make(map[string]catalog.Ref, len(ids))
	for _, id := range ids {
		if sub, ok := s.db.subcategories[id]; ok {
			refs[id] = catalog.Ref{ID: sub.ID, Name: sub.Name}
		}
	}
	return refs, nil
}

func (s *subcategoryStore) Create(_ context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.taken(sub) {
		return duplicate("name %q in category %s", sub.Name, sub.ParentCategory.ID)
	}
	sub.ID = newID()
	sub.CreatedAt = s.db.now()
	sub.UpdatedAt = sub.CreatedAt
	s.db.subcategories[sub.ID] = stored(sub)
	return nil
}

func (s *subcategoryStore) Update(_ context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.subcategories[sub.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if s.taken(sub) {
		return duplicate("name %q in category %s", sub.Name, sub.ParentCategory.ID)
	}
	sub.CreatedAt = current.CreatedAt
	sub.UpdatedAt = s.db.now()
	s.db.subcategories[sub.ID] = stored(sub)
	return nil
}

// taken reports whether another subcategory holds the same name under the same parent. Callers hold mu.
func (s *subcategoryStore) taken(sub *catalog.Subcategory) bool {
	for id, other := range s.db.subcategories {
		if id != sub.ID && other.Name == sub.Name && other.ParentCategory.ID == sub.ParentCategory.ID {
			return true
		}
	}
	return false
}

// stored keeps only the parent id, as the database drivers do.
func stored(sub *catalog.Subcategory) *catalog.Subcategory {
	cp := *sub
	cp.ParentCategory = catalog.Ref{ID: sub.ParentCategory.ID}
	return &cp
}

func (s *subcategoryStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.subcategories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.db.subcategories, id)
	return nil
}

type labCategoryStore struct{ db *DB }

func (s *labCategoryStore) List(_ context.Context, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	return s.filter(func(*catalog.LabCategory) bool { return true }, sort), nil
}

func (s *labCategoryStore) ListBySubcategory(_ context.Context, subcategoryID string, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	return s.filter(func(l *catalog.LabCategory) bool { return l.ParentSubcategory.ID == subcategoryID }, sort), nil
}

func (s *labCategoryStore) filter(keep func(*catalog.LabCategory) bool, sort catalog.Sort) []*catalog.LabCategory {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*catalog.LabCategory, 0)
	for _, l := range s.db.labCategories {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sortItems(out, sort, func(l *catalog.LabCategory, f string) sortKey {
		return entityKey(l.Name, l.CreatedAt, l.UpdatedAt, f)
	})
	return out
}

func (s *labCategoryStore) GetByID(_ context.Context, id string) (*catalog.LabCategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	l, ok := s.db.labCategories[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *labCategoryStore) FindByName(_ context.Context, name, subcategoryID string) (*catalog.LabCategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, l := range s.db.labCategories {
		if l.Name == name && l.ParentSubcategory.ID == subcategoryID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *labCategoryStore) CountBySubcategory(_ context.Context, subcategoryID string) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := 0
	for _, l := range s.db.labCategories {
		if l.ParentSubcategory.ID == subcategoryID {
			n++
		}
	}
	return n, nil
}

func (s *labCategoryStore) RefsByIDs(_ context.Context, ids []string) (map[string]catalog.Ref, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	refs := make(map[string]catalog.Ref, len(ids))
	for _, id := range ids {
		if l, ok := s.db.labCategories[id]; ok {
			refs[id] = catalog.Ref{ID: l.ID, Name: l.Name}
		}
	}
	return refs, nil
}

func (s *labCategoryStore) Create(_ context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.taken(l) {
		return duplicate("name %q in subcategory %s", l.Name, l.ParentSubcategory.ID)
	}
	l.ID = newID()
	l.CreatedAt = s.db.now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	cp.ParentSubcategory = catalog.Ref{ID: l.ParentSubcategory.ID}
	s.db.labCategories[l.ID] = &cp
	return nil
}

func (s *labCategoryStore) Update(_ context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.labCategories[l.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if s.taken(l) {
		return duplicate("name %q in subcategory %s", l.Name, l.ParentSubcategory.ID)
	}
	l.CreatedAt = current.CreatedAt
	l.UpdatedAt = s.db.now()
	cp := *l
	cp.ParentSubcategory = catalog.Ref{ID: l.ParentSubcategory.ID}
	s.db.labCategories[l.ID] = &cp
	return nil
}

func (s *labCategoryStore) taken(l *catalog.LabCategory) bool {
	for id, other := range s.db.labCategories {
		if id != l.ID && other.Name == l.Name && other.ParentSubcategory.ID == l.ParentSubcategory.ID {
			return true
		}
	}
	return false
}

func (s *labCategoryStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.labCategories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.db.labCategories, id)
	return nil
}
