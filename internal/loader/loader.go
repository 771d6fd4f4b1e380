// Package loader resolves and loads the native acceleration library.
// Resolution runs once at startup: first the system library search path,
// then each bundled-resource candidate in order, extracting to scratch
// storage and loading from there. Failure at any point degrades to the
// software backend; nothing in here is ever fatal to the process.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// test seams; the real implementations live in the per-platform files
// and in bridge.go
var (
	dlOpen  = openLibrary
	dlSym   = lookupSymbol
	bindLib = bindLibrary
)

type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceSystemPath
	SourceBundledResource
)

func (s SourceKind) String() string {
	switch s {
	case SourceSystemPath:
		return "system path"
	case SourceBundledResource:
		return "bundled resource"
	}
	return "none"
}

// LoadResult records how resolution ended. Immutable once returned.
type LoadResult struct {
	OK        bool
	Source    SourceKind
	Candidate string // resource name, only for bundled loads
	Reason    string // human-readable, only on failure
}

// Resources supplies bundled library builds by name. Open returns
// fs.ErrNotExist (or any error) when the build is absent.
type Resources interface {
	Open(name string) (io.ReadCloser, error)
}

type dirResources struct {
	dir string
}

func (d dirResources) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.dir, name))
}

// Dir returns a Resources backed by a directory of prebuilt libraries.
func Dir(dir string) Resources {
	return dirResources{dir: dir}
}

// Options carries everything Resolve needs. Candidates come from the
// resolve package; SystemName is the bare decorated name for the host's
// standard search mechanism (e.g. libbigmod.so).
type Options struct {
	Enabled    bool
	SystemName string
	Forced     string // forced candidate name, tried before Candidates
	Candidates []string
	Resources  Resources
	TempDir    string // "" means os.TempDir
	CacheDir   string // "" disables the persistent copy
	Log        *slog.Logger
}

// Library is a successfully loaded and symbol-bound native backend.
type Library struct {
	handle uintptr
	fns    funcs
	caps   Capabilities
}

func (l *Library) Capabilities() Capabilities {
	return l.caps
}

// Resolve runs the full load sequence. It returns a nil Library and an
// explanatory LoadResult when no native backend is usable.
func Resolve(opts Options) (*Library, LoadResult) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	if !opts.Enabled {
		return nil, LoadResult{OK: false, Reason: "acceleration disabled by configuration"}
	}

	// phase one: the host's standard dynamic-library search path
	if h, err := dlOpen(opts.SystemName); err == nil {
		log.Debug("loaded from system path", "name", opts.SystemName)
		lib, berr := bindLib(h)
		if berr != nil {
			// a library by our name that lacks our entry points; do not
			// shop around for a bundled one behind the admin's back
			return nil, LoadResult{OK: false, Reason: fmt.Sprintf("system library %s unusable: %v", opts.SystemName, berr)}
		}
		return lib, LoadResult{OK: true, Source: SourceSystemPath}
	}

	// phase two: bundled resources, in candidate order
	names := opts.Candidates
	if opts.Forced != "" {
		names = append([]string{opts.Forced}, names...)
	}
	if opts.Resources == nil {
		return nil, LoadResult{OK: false, Reason: "no native library on the system path and no resource bundle"}
	}

	for _, name := range names {
		rc, err := opts.Resources.Open(name)
		if err != nil {
			log.Debug("resource absent", "name", name)
			continue
		}
		lib, err := loadFromStream(rc, name, opts, log)
		rc.Close()
		if err != nil {
			log.Warn("candidate failed", "name", name, "err", err)
			continue
		}
		return lib, LoadResult{OK: true, Source: SourceBundledResource, Candidate: name}
	}

	return nil, LoadResult{OK: false, Reason: "no usable native library among " + fmt.Sprint(len(names)) + " candidates"}
}

// loadFromStream extracts one bundled build to scratch storage, loads it,
// and on success copies it best-effort into the install cache.
func loadFromStream(src io.Reader, name string, opts Options, log *slog.Logger) (*Library, error) {
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	outPath := filepath.Join(tempDir, opts.SystemName)

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(outPath)
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	h, err := dlOpen(outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	lib, err := bindLib(h)
	if err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}

	// keep a copy next time; a read-only install just skips this
	if opts.CacheDir != "" {
		if err := copyFile(outPath, filepath.Join(opts.CacheDir, opts.SystemName)); err != nil {
			log.Debug("install-cache copy skipped", "err", err)
		}
	}
	return lib, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
