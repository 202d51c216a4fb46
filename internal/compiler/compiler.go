// Package compiler implements C9: assembling and executing a compile
// command for each changed target.
package compiler

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/google/shlex"
	"github.com/hashicorp/go-multierror"

	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/depreg"
	"github.com/onursertkaya/kioku/internal/layout"
	"github.com/onursertkaya/kioku/internal/procrun"
	"github.com/onursertkaya/kioku/internal/target"
)

var ErrCompileFailed = goerrors.Errorf("compile failed")

var baseFlags = []string{"-Wall", "-Werror", "-Wextra", "-Wpedantic", "-Wno-missing-braces"}

// Config carries the compile-relevant subset of buildconfig.Config plus an
// extra, free-form flags string split with shell quoting rules — an
// enrichment over the distilled spec, which only named debug/optimize/std.
type Config struct {
	Compiler      string
	CppStandard   string
	Debug         bool
	Optimize      bool
	ExtraCxxFlags string
	KeepRunning   bool
	Silent        bool
}

// Driver assembles and runs compile commands for a set of targets.
type Driver struct {
	RepoRoot string
	BuildDir string
	Registry *depreg.Registry
	Logger   *common.Logger
}

// Compile runs the compile command for every target in changed. Tests never
// receive -O3 even when cfg.Optimize is set — an unexplained but preserved
// behavior of the tool this was distilled from.
func (d *Driver) Compile(changed []target.Target, cfg Config) error {
	var errs *multierror.Error
	anyRan := false

	for _, t := range changed {
		argv, err := d.assembleCommand(t, cfg)
		if err != nil {
			return err
		}

		anyRan = true
		message := fmt.Sprintf("compile %s", t.Name())
		if err := procrun.Run(message, argv, procrun.Options{Silent: cfg.Silent, KeepRunning: cfg.KeepRunning}); err != nil {
			wrapped := goerrors.WrapPrefix(ErrCompileFailed, t.Name(), 0)
			if !cfg.KeepRunning {
				return wrapped
			}
			errs = multierror.Append(errs, wrapped)
		}
	}

	if anyRan && d.Logger != nil && errs.ErrorOrNil() == nil {
		d.Logger.Info(0, "All compilation targets are up to date.")
	}

	return errs.ErrorOrNil()
}

func (d *Driver) assembleCommand(t target.Target, cfg Config) ([]string, error) {
	includeFlags, err := d.includeFlags(t)
	if err != nil {
		return nil, err
	}

	objPath := t.ObjectFilePath(d.BuildDir)
	if err := common.MkdirForFile(objPath); err != nil {
		return nil, err
	}

	argv := []string{cfg.Compiler, "-o", objPath, "-c", "-std=c++" + cfg.CppStandard}
	argv = append(argv, baseFlags...)

	if cfg.ExtraCxxFlags != "" {
		extra, err := shlex.Split(cfg.ExtraCxxFlags)
		if err != nil {
			return nil, err
		}
		argv = append(argv, extra...)
	}

	argv = append(argv, includeFlags...)

	if cfg.Debug {
		argv = append(argv, "-ggdb3")
	}
	if cfg.Optimize && t.Kind != classify.Test {
		argv = append(argv, "-O3")
	}

	argv = append(argv, t.SourcePath)
	return argv, nil
}

// includeFlags collects: the own-header flag (Library kind only), one per
// transitive internal header (queried with S=∅), and one per external
// header (via the dependency registry).
func (d *Driver) includeFlags(t target.Target) ([]string, error) {
	flags := make([]string, 0, 1+len(t.Headers.Internal)+len(t.Headers.External))

	if t.Kind == classify.Library && t.Headers.OwnHeader != "" {
		org, err := layout.Determine(t.SourcePath, t.Headers.OwnHeader, d.RepoRoot)
		if err != nil {
			return nil, err
		}
		flags = append(flags, org.IncludePathFlag())
	}

	for _, h := range t.Headers.Internal {
		org, err := layout.Determine("", h, d.RepoRoot)
		if err != nil {
			return nil, err
		}
		flags = append(flags, org.IncludePathFlag())
	}

	for _, h := range t.Headers.External {
		dep, err := d.Registry.QueryByHeader(h)
		if err != nil {
			return nil, err
		}
		flags = append(flags, d.Registry.IncludePathFlag(dep))
	}

	return flags, nil
}
