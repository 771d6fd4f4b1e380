//go:build darwin || linux || freebsd || netbsd

package loader

import "github.com/ebitengine/purego"

func openLibrary(name string) (uintptr, error) {
	// a bare name (no path separator) walks the standard search path
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}
