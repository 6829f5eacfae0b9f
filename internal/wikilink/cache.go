package wikilink

import (
	"sort"
	"sync"

	"git.home.luguber.info/inful/notebuilder/internal/util/sets"
)

// Cache memoizes raw-token interpretations. It is shared across every note
// processed by one engine instance and is never evicted during a build; the
// host constructs it once and passes it by reference.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Meta
}

// NewCache creates an empty link cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Meta)}
}

// Get returns the cached record for a raw token. Hits are exact raw-string
// matches, not semantic equivalence.
func (c *Cache) Get(token string) (*Meta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[token]
	return m, ok
}

// Add stores meta under token unless an entry is already present. The stored
// record is returned either way, so interpreters racing on the same token
// agree on a single instance.
func (c *Cache) Add(token string, meta *Meta) *Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[token]; ok {
		return existing
	}
	c.entries[token] = meta
	return meta
}

// Len returns the number of cached tokens.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DeadLinks collects raw tokens that failed to resolve to a real note or
// asset. It grows monotonically and deduplicates repeats of the same token.
type DeadLinks struct {
	mu     sync.Mutex
	tokens sets.Set[string]
}

// NewDeadLinks creates an empty dead-link set.
func NewDeadLinks() *DeadLinks {
	return &DeadLinks{tokens: sets.New[string]()}
}

// Add records an unresolved token.
func (d *DeadLinks) Add(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens.Add(token)
}

// Has reports whether token has been recorded.
func (d *DeadLinks) Has(token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tokens.Has(token)
}

// Len returns the number of distinct unresolved tokens.
func (d *DeadLinks) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tokens.Len()
}

// Tokens returns the recorded tokens in sorted order.
func (d *DeadLinks) Tokens() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.tokens.Values()
	sort.Strings(out)
	return out
}
