// Package loader maps shared libraries into the process and pins them there.
//
// Each library is opened at most once per canonical path and is kept for
// the remaining life of the process: there is no way to unload a single
// library, because code and data inside it may still be referenced from
// plugins or other live state. Opening a library runs its package
// initializers, which is how libraries contribute self-registered plugins
// to the registry package without either package knowing about the other.
package loader
