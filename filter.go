package caliper

import (
	"sort"
	"sync"
)

// SerializeAllID is the filter id under which SerializeAll is registered by
// DefaultFilterProvider.
const SerializeAllID = "serializeAll"

// PropertyFilter decides which entity properties are written. "id" and
// "type" are always written regardless of the filter.
type PropertyFilter interface {
	Include(property string) bool
}

// PropertyFilterFunc adapts a function to PropertyFilter.
type PropertyFilterFunc func(property string) bool

func (f PropertyFilterFunc) Include(property string) bool { return f(property) }

// SerializeAll returns a filter that keeps every property.
func SerializeAll() PropertyFilter {
	return PropertyFilterFunc(func(string) bool { return true })
}

// FilterOutAllExcept returns a filter that keeps only the named properties.
func FilterOutAllExcept(properties ...string) PropertyFilter {
	set := toSet(properties)
	return PropertyFilterFunc(func(p string) bool {
		_, ok := set[p]
		return ok
	})
}

// SerializeAllExcept returns a filter that drops the named properties.
func SerializeAllExcept(properties ...string) PropertyFilter {
	set := toSet(properties)
	return PropertyFilterFunc(func(p string) bool {
		_, ok := set[p]
		return !ok
	})
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// FilterProvider resolves filter ids to policies. It is safe for concurrent use.
type FilterProvider struct {
	filters       map[string]PropertyFilter
	failOnUnknown bool
	mu            sync.RWMutex
}

// NewFilterProvider creates an empty provider that fails on unknown ids.
func NewFilterProvider() *FilterProvider {
	return &FilterProvider{
		filters:       make(map[string]PropertyFilter),
		failOnUnknown: true,
	}
}

// DefaultFilterProvider creates a provider with SerializeAll registered
// under SerializeAllID.
func DefaultFilterProvider() *FilterProvider {
	p := NewFilterProvider()
	p.AddFilter(SerializeAllID, SerializeAll())
	return p
}

// AddFilter registers a policy, replacing any previous one with the same id.
func (p *FilterProvider) AddFilter(id string, filter PropertyFilter) *FilterProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters[id] = filter
	return p
}

// RemoveFilter unregisters a policy.
func (p *FilterProvider) RemoveFilter(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.filters, id)
}

// SetFailOnUnknownID controls whether an unregistered id is an error
// (true, the default) or means "serialize everything".
func (p *FilterProvider) SetFailOnUnknownID(fail bool) *FilterProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOnUnknown = fail
	return p
}

// FailOnUnknownID reports the unknown-id policy.
func (p *FilterProvider) FailOnUnknownID() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failOnUnknown
}

// Filter returns the policy registered under id.
func (p *FilterProvider) Filter(id string) (PropertyFilter, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.filters[id]
	return f, ok
}

// IDs returns the registered ids in sorted order.
func (p *FilterProvider) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.filters))
	for id := range p.filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
