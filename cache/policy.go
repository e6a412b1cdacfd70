package cache

import "time"

// Policy configures eviction.
type Policy struct {
	// TTL is how long an entry lives after it is stored.
	// If zero, entries never expire.
	TTL time.Duration

	// MaxEntries bounds the cache; the least recently used entry is evicted
	// to make room. If zero, no bound is enforced.
	MaxEntries int
}

// DefaultPolicy returns the default eviction policy.
// TTL: 30 minutes, MaxEntries: 4096
func DefaultPolicy() Policy {
	return Policy{
		TTL:        30 * time.Minute,
		MaxEntries: 4096,
	}
}

// UnboundedPolicy returns a policy that never evicts.
func UnboundedPolicy() Policy {
	return Policy{}
}

// Expires reports whether entries expire.
func (p Policy) Expires() bool {
	return p.TTL > 0
}

// Bounded reports whether the number of entries is limited.
func (p Policy) Bounded() bool {
	return p.MaxEntries > 0
}

// Normalize clamps negative values to their "disabled" meaning.
func (p Policy) Normalize() Policy {
	if p.TTL < 0 {
		p.TTL = 0
	}
	if p.MaxEntries < 0 {
		p.MaxEntries = 0
	}
	return p
}
