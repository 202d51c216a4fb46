// Package linker implements C10: gathering a target's transitive in-repo
// object files and external library flags, then executing a link command.
package linker

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"

	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/depreg"
	"github.com/onursertkaya/kioku/internal/procrun"
	"github.com/onursertkaya/kioku/internal/target"
)

var ErrLinkFailed = goerrors.Errorf("link failed")

type Config struct {
	Compiler    string
	Debug       bool
	KeepRunning bool
	Silent      bool
}

// Driver links changed Executable/Test targets, consulting the full target
// list to find the object files of their in-repo dependees.
type Driver struct {
	RepoRoot string
	BuildDir string
	Registry *depreg.Registry
	Logger   *common.Logger
}

// Link runs a link command for every Executable or Test target in changed,
// skipping targets of any other kind (Tests are excluded upstream when
// test=false).
// allTargets is the full, unfiltered target list for the current build,
// needed to resolve dependee object files that may not themselves have
// changed.
func (d *Driver) Link(allTargets []target.Target, changed []target.Target, cfg Config) error {
	var errs *multierror.Error
	anyRan := false

	for _, t := range changed {
		if t.Kind != classify.Executable && t.Kind != classify.Test {
			continue
		}

		argv, err := d.assembleCommand(allTargets, t, cfg)
		if err != nil {
			return err
		}

		anyRan = true
		message := fmt.Sprintf("link %s", t.Name())
		if err := procrun.Run(message, argv, procrun.Options{Silent: cfg.Silent, KeepRunning: cfg.KeepRunning}); err != nil {
			wrapped := goerrors.WrapPrefix(ErrLinkFailed, t.Name(), 0)
			if !cfg.KeepRunning {
				return wrapped
			}
			errs = multierror.Append(errs, wrapped)
		}
	}

	if anyRan && d.Logger != nil && errs.ErrorOrNil() == nil {
		d.Logger.Info(0, "All executable targets are up to date.")
	}

	return errs.ErrorOrNil()
}

func (d *Driver) assembleCommand(allTargets []target.Target, t target.Target, cfg Config) ([]string, error) {
	exePath, err := t.ExecutableFilePath(d.BuildDir)
	if err != nil {
		return nil, err
	}
	if err := common.MkdirForFile(exePath); err != nil {
		return nil, err
	}

	objFiles := []string{t.ObjectFilePath(d.BuildDir)}
	objFiles = append(objFiles, d.gatherDependeeObjectFiles(allTargets, t)...)

	libraryFlags, extraFlags, err := d.externalLibraryFlags(t, cfg.Debug)
	if err != nil {
		return nil, err
	}

	argv := []string{cfg.Compiler, "-o", exePath}
	argv = append(argv, objFiles...)
	argv = append(argv, libraryFlags...)
	argv = append(argv, extraFlags...)
	argv = append(argv, "-pthread")
	return argv, nil
}

// gatherDependeeObjectFiles implements the non-recursive "one level" lookup:
// for each internal header of T, every other target whose own-header
// equals that header contributes its object file. This intentionally does
// not recurse — if library A includes B, and executable E includes A but
// not B, B's object file is omitted. Preserved from the tool this was
// distilled from; see the design notes on transitive link sets.
func (d *Driver) gatherDependeeObjectFiles(allTargets []target.Target, t target.Target) []string {
	var files []string
	for _, h := range t.Headers.Internal {
		for _, u := range allTargets {
			if u.Name() == t.Name() {
				continue
			}
			if u.Headers.OwnHeader == h {
				files = append(files, u.ObjectFilePath(d.BuildDir))
			}
		}
	}
	return files
}

func (d *Driver) externalLibraryFlags(t target.Target, debug bool) (libFlags []string, extraFlags []string, err error) {
	seenDirs := map[string]bool{}
	for _, h := range t.Headers.External {
		dep, err := d.Registry.QueryByHeader(h)
		if err != nil {
			return nil, nil, err
		}

		dir, files := d.Registry.ObjectFiles(dep, debug)
		if !seenDirs[dir] {
			libFlags = append(libFlags, "-L"+dir)
			seenDirs[dir] = true
		}
		for _, f := range files {
			libFlags = append(libFlags, "-l"+stripLibFileName(f))
		}
		extraFlags = append(extraFlags, dep.ExtraLinkFlags...)
	}
	return libFlags, extraFlags, nil
}

// stripLibFileName removes a leading "lib" and a trailing ".a" or ".so"
// from a built-artifact filename, e.g. "libgtest.a" -> "gtest". This is a
// literal prefix/suffix strip, not a character-class trim — the original
// implementation used Python's str.lstrip/rstrip, which strips any
// characters found in the given set rather than the literal substring,
// silently over-trimming names like "libb.a" into "". Written correctly
// here.
func stripLibFileName(fileName string) string {
	name := strings.TrimPrefix(fileName, "lib")
	name = strings.TrimSuffix(name, ".a")
	name = strings.TrimSuffix(name, ".so")
	return name
}
