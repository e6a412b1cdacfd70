package policy

import "sync"

// Overrides is the set of functions and types whose guarded uses are exempt.
// Names may be fully qualified ("github.com/x/pkg.(*T).M") or package
// qualified ("pkg.(*T).M", "pkg.T").
//
// Contract:
// - Concurrency: safe for concurrent use.
type Overrides struct {
	mu    sync.RWMutex
	funcs map[string]struct{}
	types map[string]struct{}
}

// NewOverrides creates an empty set.
func NewOverrides() *Overrides {
	return &Overrides{
		funcs: make(map[string]struct{}),
		types: make(map[string]struct{}),
	}
}

// AllowFunc exempts the named function.
func (o *Overrides) AllowFunc(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.funcs[name] = struct{}{}
}

// AllowType exempts every method of the named type.
func (o *Overrides) AllowType(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.types[name] = struct{}{}
}

// Covers reports whether site is exempt.
func (o *Overrides) Covers(site Site) bool {
	if site.Override {
		return true
	}
	if o == nil {
		return false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return match(o.funcs, site.Function) || match(o.types, site.Type)
}

func match(set map[string]struct{}, name string) bool {
	if name == "" {
		return false
	}
	if _, ok := set[name]; ok {
		return true
	}
	_, ok := set[shortName(name)]
	return ok
}
