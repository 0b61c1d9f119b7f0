// Package app contains the core application logic. It wires the manifest,
// the library loader, and the plugin registry together and reports what the
// process ended up with, decoupled from any specific entrypoint like a CLI.
package app
