//go:build !(linux || darwin || freebsd)

package loader

func openLibrary(string) (Handle, error) {
	return nil, ErrUnsupported
}
