package platform

import (
	"runtime"
	"strconv"
)

// OSFamily is the middle-name component used in library resource names,
// e.g. "linux" in libbigmod-linux-athlon64.so.
type OSFamily string

const (
	OSLinux    OSFamily = "linux"
	OSWindows  OSFamily = "windows"
	OSMac      OSFamily = "osx"
	OSFreeBSD  OSFamily = "freebsd"
	OSKFreeBSD OSFamily = "kfreebsd"
	OSNetBSD   OSFamily = "netbsd"
	OSOpenBSD  OSFamily = "openbsd"
	OSSolaris  OSFamily = "solaris"
	OSAndroid  OSFamily = "android"
)

type ArchFamily int

const (
	ArchOther ArchFamily = iota
	ArchX86
	ArchARM
	ArchPPC
)

// Profile describes the running platform as far as library naming is
// concerned. Computed once at startup and never mutated.
type Profile struct {
	OS        OSFamily
	Is64Bit   bool
	Arch      ArchFamily
	LibPrefix string
	LibSuffix string
}

// Detect builds the profile from the Go runtime. An OS without its own
// naming convention falls back to linux naming rather than failing.
func Detect() Profile {
	return forTarget(runtime.GOOS, runtime.GOARCH, strconv.IntSize == 64)
}

// ForTarget returns the profile for an arbitrary GOOS/GOARCH pair. Used by
// the candidates CLI command and tests; Detect is the runtime entry point.
func ForTarget(goos, goarch string) Profile {
	is64 := true
	switch goarch {
	case "386", "arm", "ppc", "mips", "mipsle":
		is64 = false
	}
	return forTarget(goos, goarch, is64)
}

func forTarget(goos, goarch string, is64 bool) Profile {
	var os OSFamily
	switch goos {
	case "windows":
		os = OSWindows
	case "darwin":
		os = OSMac
	case "freebsd":
		os = OSFreeBSD
	case "netbsd":
		os = OSNetBSD
	case "openbsd":
		os = OSOpenBSD
	case "solaris", "illumos":
		os = OSSolaris
	case "android":
		os = OSAndroid
	default:
		// linux, and anything we have never heard of
		os = OSLinux
	}

	var arch ArchFamily
	switch goarch {
	case "386", "amd64":
		arch = ArchX86
	case "arm", "arm64":
		arch = ArchARM
	case "ppc", "ppc64", "ppc64le":
		arch = ArchPPC
	}

	prefix := "lib"
	suffix := ".so"
	switch os {
	case OSWindows:
		prefix = ""
		suffix = ".dll"
	case OSMac:
		suffix = ".dylib"
	}

	return Profile{
		OS:        os,
		Is64Bit:   is64,
		Arch:      arch,
		LibPrefix: prefix,
		LibSuffix: suffix,
	}
}
