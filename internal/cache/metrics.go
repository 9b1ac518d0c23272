package cache

import "sync/atomic"

type counters struct {
	hits          atomic.Int64
	misses        atomic.Int64
	errors        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
}

// snapshot reports the counters with hit_rate as a percentage of lookups.
func (c *counters) snapshot() map[string]interface{} {
	hits, misses := c.hits.Load(), c.misses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}
	return map[string]interface{}{
		"hits":          hits,
		"misses":        misses,
		"errors":        c.errors.Load(),
		"sets":          c.sets.Load(),
		"invalidations": c.invalidations.Load(),
		"hit_rate":      hitRate,
	}
}
