// Package testutil contains shared fixtures for package tests.
package testutil

import "sync/atomic"

// Counter tracks how many CountedPlugin instances it created are still
// alive, mirroring a constructor/destructor counter.
type Counter struct {
	live atomic.Int64
}

// New returns a plugin carrying value and counts it as alive.
func (c *Counter) New(value string) *CountedPlugin {
	c.live.Add(1)
	return &CountedPlugin{Value: value, counter: c}
}

// Live reports how many plugins have been created but not yet released.
func (c *Counter) Live() int64 {
	return c.live.Load()
}

// CountedPlugin satisfies registry.Plugin and records its releases.
type CountedPlugin struct {
	Value    string
	counter  *Counter
	releases atomic.Int32
}

// Release decrements the owning counter.
func (p *CountedPlugin) Release() {
	p.releases.Add(1)
	p.counter.live.Add(-1)
}

// Releases reports how many times Release was called.
func (p *CountedPlugin) Releases() int32 {
	return p.releases.Load()
}

// Describe lets status output show the stored value.
func (p *CountedPlugin) Describe() string {
	return p.Value
}
