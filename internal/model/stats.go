package model

import "sync/atomic"

// DispatchStats is returned to clients for GET /metrics.
type DispatchStats struct {
	Received   uint64 `json:"received"`
	Dispatched uint64 `json:"dispatched"`
	Dropped    uint64 `json:"dropped"`
	Unhandled  uint64 `json:"unhandled"`
}

// Counters accumulates DispatchStats across concurrent events.
type Counters struct {
	received   atomic.Uint64
	dispatched atomic.Uint64
	dropped    atomic.Uint64
	unhandled  atomic.Uint64
}

func (c *Counters) IncReceived()   { c.received.Add(1) }
func (c *Counters) IncDispatched() { c.dispatched.Add(1) }
func (c *Counters) IncDropped()    { c.dropped.Add(1) }
func (c *Counters) IncUnhandled()  { c.unhandled.Add(1) }

// Snapshot returns the current values.
func (c *Counters) Snapshot() DispatchStats {
	return DispatchStats{
		Received:   c.received.Load(),
		Dispatched: c.dispatched.Load(),
		Dropped:    c.dropped.Load(),
		Unhandled:  c.unhandled.Load(),
	}
}
