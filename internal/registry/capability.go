package registry

// Describer is an optional capability for plugins that can summarize
// themselves for status output.
type Describer interface {
	Describe() string
}

// As reports whether p implements the capability C and returns it if so.
// A nil plugin supports nothing.
func As[C any](p Plugin) (C, bool) {
	c, ok := any(p).(C)
	return c, ok
}

// Lookup finds name in r and probes it for the capability C. It returns
// false both when the name is absent and when the plugin does not
// implement C.
func Lookup[C any](r *Registry, name string) (C, bool) {
	p, ok := r.Get(name)
	if !ok {
		var zero C
		return zero, false
	}
	return As[C](p)
}
