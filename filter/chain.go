package filter

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Chain is an ordered set of admission filters with snapshot semantics.
// Evaluation sees a complete, consistent filter set captured at its start;
// concurrent Add/Remove calls publish new immutable snapshots and are
// never observed mid-evaluation.
type Chain struct {
	writeMu sync.Mutex
	set     atomic.Pointer[[]Filter]
}

// NewChain creates a chain containing the given filters in order.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{}
	set := make([]Filter, len(filters))
	copy(set, filters)
	c.set.Store(&set)
	return c
}

// Add appends a filter to the chain. It is evaluated after all filters
// added before it.
func (c *Chain) Add(f Filter) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := *c.set.Load()
	next := make([]Filter, 0, len(old)+1)
	next = append(next, old...)
	next = append(next, f)
	c.set.Store(&next)

	logrus.WithFields(logrus.Fields{
		"function": "Chain.Add",
		"filter":   f.ID(),
		"filters":  len(next),
	}).Debug("Admission filter added")
}

// Remove deletes every filter with the given ID, reporting whether any
// was present. In-flight evaluations keep using the snapshot they captured.
func (c *Chain) Remove(id string) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := *c.set.Load()
	next := make([]Filter, 0, len(old))
	for _, f := range old {
		if f.ID() != id {
			next = append(next, f)
		}
	}
	if len(next) == len(old) {
		return false
	}
	c.set.Store(&next)

	logrus.WithFields(logrus.Fields{
		"function": "Chain.Remove",
		"filter":   id,
		"filters":  len(next),
	}).Debug("Admission filter removed")
	return true
}

// Evaluate runs the chain against the given context in insertion order,
// short-circuiting on the first Block. Allow requires unanimous consent.
func (c *Chain) Evaluate(ctx Context) Decision {
	for _, f := range *c.set.Load() {
		if f.Check(ctx) == Block {
			logrus.WithFields(logrus.Fields{
				"function": "Chain.Evaluate",
				"filter":   f.ID(),
			}).Debug("Handshake attempt blocked by filter")
			return Block
		}
	}
	return Allow
}

// Len returns the number of filters currently in the chain.
func (c *Chain) Len() int {
	return len(*c.set.Load())
}
