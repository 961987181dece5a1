// Package queue hands out per-vendor pickup numbers.
package queue

import "sync"

// Allocator keeps one counter per vendor. The map lock is only held to look a
// counter up; increments lock the vendor's own counter, so vendors never wait
// on each other.
type Allocator struct {
	mu       sync.Mutex
	counters map[string]*counter
}

type counter struct {
	mu   sync.Mutex
	last int
}

func NewAllocator() *Allocator {
	return &Allocator{counters: make(map[string]*counter)}
}

func (a *Allocator) counter(vendorID string) *counter {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.counters[vendorID]
	if !ok {
		c = &counter{}
		a.counters[vendorID] = c
	}
	return c
}

// Next increments and returns the vendor's counter. The first number is 1.
func (a *Allocator) Next(vendorID string) int {
	n, _ := a.Allocate(vendorID, nil)
	return n
}

// Allocate reserves the next number and runs commit with it while the vendor's
// counter is held. The counter only advances when commit succeeds, so a failed
// caller never burns a number.
func (a *Allocator) Allocate(vendorID string, commit func(n int) error) (int, error) {
	c := a.counter(vendorID)
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.last + 1
	if commit != nil {
		if err := commit(n); err != nil {
			return 0, err
		}
	}
	c.last = n
	return n, nil
}

// Current returns the last number issued to the vendor, 0 if none.
func (a *Allocator) Current(vendorID string) int {
	c := a.counter(vendorID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
