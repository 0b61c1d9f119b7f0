// Package manifest reads the HCL files that tell aero which shared
// libraries to load and which plugins the process expects to end up with.
//
//	library "fruit" {
//	  path     = "${env.AERO_PLUGIN_DIR}/fruit.so"
//	  optional = true
//	}
//
//	search_paths = ["./plugins"]
//	expect       = ["fruit", "cat"]
//
// Expressions may reference env (the process environment) and manifest_dir
// (the directory of the file being read). Relative paths are resolved
// against manifest_dir. Any number of files is merged into one Manifest.
package manifest
