// Package depreg implements C3: a declarative catalog of third-party
// libraries with their include paths, built artifacts, and debug/release
// variants.
package depreg

import (
	"fmt"
	"path"
	"strings"

	goerrors "github.com/go-errors/errors"
)

var ErrUnknownDependency = goerrors.Errorf("unknown dependency")

// Dependency is a declared entry for a third-party library. It is a value
// object, constant for the lifetime of a Registry.
type Dependency struct {
	Name                   string   // logical name, e.g. "googletest"
	SourceURL              string   // opaque to the core
	RelativeIncludePath    string   // relative to its checkout root
	IncludeStatement       string   // e.g. "gtest/gtest.h"
	RelativeBuiltFilesDir  string   // built-artifact directory prefix, e.g. "lib"
	ReleaseBuiltFiles      []string // ordered artifact filenames, release variant
	DebugBuiltFiles        []string // ordered artifact filenames, debug variant
	ExtraLinkFlags         []string // flags appended verbatim after -l flags, e.g. "-pthread"
}

// HeaderRelpath is the path this dependency's canonical include statement
// resolves to, relative to the registry's third-party root.
func (d Dependency) HeaderRelpath() string {
	return path.Join(d.Name, d.RelativeIncludePath, d.IncludeStatement)
}

// Registry is an ordered set of Dependencies with a filesystem root where
// their checkouts live.
type Registry struct {
	Root         string
	Dependencies []Dependency
}

// NewDefaultRegistry returns a Registry with the canonical googletest entry,
// matching the reference implementation's hardcoded dependency list.
func NewDefaultRegistry(root string) *Registry {
	return &Registry{
		Root: root,
		Dependencies: []Dependency{
			{
				Name:                  "googletest",
				SourceURL:             "https://github.com/google/googletest",
				RelativeIncludePath:   "googletest/include",
				IncludeStatement:      "gtest/gtest.h",
				RelativeBuiltFilesDir: "lib",
				ReleaseBuiltFiles:     []string{"libgtest.a", "libgtest_main.a"},
				DebugBuiltFiles:       []string{"libgtest.a", "libgtest_main.a"},
				ExtraLinkFlags:        []string{"-pthread"},
			},
		},
	}
}

// QueryByHeader returns the Dependency whose
// root/name/relative_include_path/include_statement equals absPath.
func (r *Registry) QueryByHeader(absPath string) (Dependency, error) {
	for _, d := range r.Dependencies {
		candidate := path.Join(r.Root, d.HeaderRelpath())
		if candidate == absPath {
			return d, nil
		}
	}
	return Dependency{}, goerrors.WrapPrefix(ErrUnknownDependency, absPath, 0)
}

// MatchIncludeStatement returns the Dependency whose IncludeStatement
// contains token as a substring, used by the include resolver's external
// search.
func (r *Registry) MatchIncludeStatement(token string) (Dependency, bool) {
	for _, d := range r.Dependencies {
		if strings.Contains(d.IncludeStatement, token) {
			return d, true
		}
	}
	return Dependency{}, false
}

// IncludePathFlag returns the compiler -I flag for a dependency's headers.
func (r *Registry) IncludePathFlag(d Dependency) string {
	return fmt.Sprintf("-I%s", path.Join(r.Root, d.Name, d.RelativeIncludePath))
}

// ObjectFiles returns the built-artifact directory and file list for a
// dependency, selecting the debug or release variant.
func (r *Registry) ObjectFiles(d Dependency, debug bool) (string, []string) {
	variant := "build"
	files := d.ReleaseBuiltFiles
	if debug {
		variant = "build_debug"
		files = d.DebugBuiltFiles
	}
	dir := path.Join(r.Root, d.Name, variant, d.RelativeBuiltFilesDir)
	return dir, files
}
