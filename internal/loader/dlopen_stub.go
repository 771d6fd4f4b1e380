//go:build !windows && !darwin && !linux && !freebsd && !netbsd

package loader

import "errors"

var errNoDynamicLoading = errors.New("dynamic library loading not supported on this platform")

func openLibrary(name string) (uintptr, error) {
	return 0, errNoDynamicLoading
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return 0, errNoDynamicLoading
}
