package catalog

import "context"

// Reference expansion. Each referenced kind costs one lookup per batch; references
// that no longer resolve become null (single refs) or are dropped (category lists).

func (s *Service) populateSubcategories(ctx context.Context, subs []*Subcategory, withImage bool) error {
	if len(subs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ParentCategory.ID)
	}
	refs, err := s.store.Categories.RefsByIDs(ctx, uniq(ids))
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if ref, ok := refs[sub.ParentCategory.ID]; ok {
			if !withImage {
				ref.Image = ""
			}
			sub.ParentCategory = ref
		}
	}
	return nil
}

func (s *Service) populateLabCategories(ctx context.Context, labs []*LabCategory) error {
	if len(labs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(labs))
	for _, lab := range labs {
		ids = append(ids, lab.ParentSubcategory.ID)
	}
	refs, err := s.store.Subcategories.RefsByIDs(ctx, uniq(ids))
	if err != nil {
		return err
	}
	for _, lab := range labs {
		if ref, ok := refs[lab.ParentSubcategory.ID]; ok {
			lab.ParentSubcategory = ref
		}
	}
	return nil
}

func (s *Service) populateProducts(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return nil
	}

	var catIDs, subIDs, labIDs []string
	for _, p := range products {
		catIDs = append(catIDs, p.CategoryIDs()...)
		if id := p.SubCategoryID(); id != "" {
			subIDs = append(subIDs, id)
		}
		if id := p.LabCategoryID(); id != "" {
			labIDs = append(labIDs, id)
		}
	}

	cats, err := s.refs(ctx, s.store.Categories.RefsByIDs, catIDs)
	if err != nil {
		return err
	}
	subs, err := s.refs(ctx, s.store.Subcategories.RefsByIDs, subIDs)
	if err != nil {
		return err
	}
	labs, err := s.refs(ctx, s.store.LabCategories.RefsByIDs, labIDs)
	if err != nil {
		return err
	}

	for _, p := range products {
		expanded := make([]Ref, 0, len(p.Categories))
		for _, c := range p.Categories {
			if ref, ok := cats[c.ID]; ok {
				expanded = append(expanded, ref)
			}
		}
		p.Categories = expanded
		p.SubCategory = expand(p.SubCategory, subs)
		p.LabCategory = expand(p.LabCategory, labs)
	}
	return nil
}

type refLookup func(ctx context.Context, ids []string) (map[string]Ref, error)

// refs resolves ids to {id,name} pairs only.
func (s *Service) refs(ctx context.Context, lookup refLookup, ids []string) (map[string]Ref, error) {
	if len(ids) == 0 {
		return map[string]Ref{}, nil
	}
	found, err := lookup(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	for id, ref := range found {
		found[id] = Ref{ID: ref.ID, Name: ref.Name}
	}
	return found, nil
}

func expand(ref *Ref, refs map[string]Ref) *Ref {
	if ref == nil {
		return nil
	}
	r, ok := refs[ref.ID]
	if !ok {
		return nil
	}
	return &r
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
