// Package registry holds the ordered two-level category taxonomy and the
// keyword classifier used when importing external events.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
)

// Registry is an in-memory view of the category set. Order is significant:
// classification walks categories in listed order and the first keyword
// match wins. Callers persist changes through the store.
type Registry struct {
	mu   sync.RWMutex
	cats []model.Category
}

// New builds a registry over cats, keeping their order. An empty set falls
// back to the defaults.
func New(cats []model.Category) *Registry {
	if len(cats) == 0 {
		cats = Defaults()
	}
	return &Registry{cats: cloneAll(cats)}
}

// Categories returns the categories in configured order.
func (r *Registry) Categories() []model.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.cats)
}

// Get returns the category with the given name.
func (r *Registry) Get(name string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cats {
		if c.Name == name {
			return clone(c), nil
		}
	}
	return model.Category{}, fmt.Errorf("category %q: %w", name, store.ErrNotFound)
}

// Replace overwrites color, sub-categories and keywords of an existing
// category. Renaming is unsupported so existing log rows keep a valid
// name reference.
func (r *Registry) Replace(name, color string, subs, keywords []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.cats {
		if c.Name == name {
			r.cats[i] = clone(model.Category{Name: name, Color: color, Subs: subs, Keywords: keywords})
			return nil
		}
	}
	return fmt.Errorf("category %q: %w", name, store.ErrNotFound)
}

// Reset discards all current categories and reinstalls the default set.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cats = Defaults()
}

// Classify maps an event title to a (category, sub-category) pair by
// case-insensitive substring match. Categories are tried in registry order
// and the first matching keyword wins; no scoring, no word boundaries. A
// title with no match falls back to the catch-all category.
func (r *Registry) Classify(text string) (string, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lower := strings.ToLower(text)
	for _, c := range r.cats {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return c.Name, firstSub(c)
			}
		}
	}
	fallback := r.catchAll()
	return fallback.Name, firstSub(fallback)
}

// catchAll is the first category with no keywords, or the last category
// when every one carries keywords. The default set keeps exactly one
// keyword-less category (デフォルト).
func (r *Registry) catchAll() model.Category {
	for _, c := range r.cats {
		if len(c.Keywords) == 0 {
			return c
		}
	}
	return r.cats[len(r.cats)-1]
}

func firstSub(c model.Category) string {
	if len(c.Subs) == 0 {
		return model.Unclassified
	}
	return c.Subs[0]
}

func clone(c model.Category) model.Category {
	c.Subs = append([]string(nil), c.Subs...)
	c.Keywords = append([]string(nil), c.Keywords...)
	return c
}

func cloneAll(cats []model.Category) []model.Category {
	out := make([]model.Category, len(cats))
	for i, c := range cats {
		out[i] = clone(c)
	}
	return out
}
