// Package memory is an in-process storage backend enforcing the same unique
// keys and field constraints as the database drivers.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"

	"github.com/google/uuid"
)

type DB struct {
	mu            sync.RWMutex
	categories    map[string]*catalog.Category
	subcategories map[string]*catalog.Subcategory
	labCategories map[string]*catalog.LabCategory
	products      map[string]*catalog.Product
	users         map[string]*users.User
	last          time.Time
}

func New() *DB {
	return &DB{
		categories:    make(map[string]*catalog.Category),
		subcategories: make(map[string]*catalog.Subcategory),
		labCategories: make(map[string]*catalog.LabCategory),
		products:      make(map[string]*catalog.Product),
		users:         make(map[string]*users.User),
	}
}

// Catalog returns the four collection accessors backed by db.
func (db *DB) Catalog() catalog.Store {
	return catalog.Store{
		Categories:    &categoryStore{db},
		Subcategories: &subcategoryStore{db},
		LabCategories: &labCategoryStore{db},
		Products:      &productStore{db},
	}
}

func (db *DB) Users() users.Store {
	return &userStore{db}
}

// now is strictly increasing so createdAt orderings are total. Callers hold mu.
func (db *DB) now() time.Time {
	t := time.Now().UTC()
	if !t.After(db.last) {
		t = db.last.Add(time.Microsecond)
	}
	db.last = t
	return t
}

func newID() string {
	return uuid.NewString()
}

func duplicate(format string, args ...any) error {
	return catalog.Conflict("duplicate key: %s", fmt.Sprintf(format, args...))
}

// sortKey is the comparable value of one sortable field.
type sortKey struct {
	s string
	t time.Time
}

func (a sortKey) less(b sortKey) bool {
	if !a.t.Equal(b.t) {
		return a.t.Before(b.t)
	}
	return a.s < b.s
}

func sortItems[T any](items []*T, s catalog.Sort, key func(*T, string) sortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := key(items[i], s.Field), key(items[j], s.Field)
		if s.Desc {
			return b.less(a)
		}
		return a.less(b)
	})
}

func entityKey(name string, created, updated time.Time, field string) sortKey {
	switch field {
	case "createdAt":
		return sortKey{t: created}
	case "updatedAt":
		return sortKey{t: updated}
	default:
		return sortKey{s: name}
	}
}
