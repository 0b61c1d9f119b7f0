// Package registry holds the process's plugin instances, indexed by name.
//
// A Registry owns every plugin it accepts. Ownership moves into the registry
// on Register and never leaves it: lookups hand back the stored value for
// use, and the registry alone releases it when it is closed. A rejected
// registration is released on the spot, so callers never clean up after a
// failed Register.
//
// Plugins announce themselves with Declare from a package-level variable:
//
//	var _ = registry.Declare("fruit", func() registry.Plugin { return &Fruit{} })
//
// Declarations are collected as the program (or a shared library loaded
// later) initializes, and are drained into the process-wide registry the
// next time Default is called. Draining order is unspecified, so no
// declaration may depend on another name being registered first.
//
// Optional capabilities are plain interfaces. The registry never inspects
// them; callers probe a plugin with As or Lookup.
package registry
