package unc17

// IDNamespace selects which of an IDCreator's counters a call to NewID
// draws from (spec.md §3, §4.D).
type IDNamespace int

const (
	NamespaceItem IDNamespace = iota
	NamespaceTrack
	NamespaceEntityGroup

	namespaceCount = 3
)

// IDCreator mints monotonic unique IDs, either per-namespace (item, track,
// entity-group) or from a single shared counter once SetUnified(true) is
// called (spec.md §3, §4.D). Use NewIDCreator, whose counters all start
// at 1: in the zero value every counter is 0, which NewID reports as an
// overflow.
type IDCreator struct {
	counters [namespaceCount]uint32
	global   uint32 // used only in unified mode, independent of counters
	unified  bool
}

// NewIDCreator returns an IDCreator with all counters at their starting
// value.
func NewIDCreator() *IDCreator {
	c := &IDCreator{global: 1}
	for i := range c.counters {
		c.counters[i] = 1
	}
	return c
}

// SetUnified switches all three namespaces to share one counter, or back
// to three independent counters (spec.md §4.D, §6). The shared counter is
// its own field, always starting at 1: switching to unified mode does not
// inherit any namespace's current progress, and the three per-namespace
// counters are left untouched so they resume their own sequence if
// unified mode is later turned off.
func (c *IDCreator) SetUnified(unified bool) {
	c.unified = unified
}

// NewID returns the next ID for namespace, post-incrementing its counter.
// If the counter has wrapped to 0 by the time of the call, NewID returns a
// Usage error ("ID namespace overflow") rather than silently reusing 0
// (spec.md §4.D).
func (c *IDCreator) NewID(namespace IDNamespace) (uint32, error) {
	if c.unified {
		if c.global == 0 {
			return 0, usageError("ID namespace overflow")
		}
		id := c.global
		c.global++
		return id, nil
	}
	if c.counters[namespace] == 0 {
		return 0, usageError("ID namespace overflow")
	}
	id := c.counters[namespace]
	c.counters[namespace]++
	return id, nil
}
