package target

import (
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/onursertkaya/kioku/internal/buildconfig"
	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/depreg"
	"github.com/onursertkaya/kioku/internal/fsscan"
	"github.com/onursertkaya/kioku/internal/includes"
)

var ErrNotImplemented = goerrors.Errorf("not implemented")

// Explorer walks a repository and builds a Target per qualifying source
// file.
type Explorer struct {
	RepoRoot string
	Registry *depreg.Registry
	Logger   *common.Logger
}

// Explore enumerates every source file under e.RepoRoot,
// filters to those whose path contains cfg.TargetSubdir, resolves each
// one's includes and kind, builds a Target, and — unless cfg.Test is set —
// drops Test targets. Order follows fsscan.Scan's sorted output.
func (e *Explorer) Explore(cfg buildconfig.Config) ([]Target, error) {
	sources, err := fsscan.Scan(e.RepoRoot, fsscan.SourceExtensions)
	if err != nil {
		return nil, err
	}
	headers, err := fsscan.Scan(e.RepoRoot, fsscan.HeaderExtensions)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(sources))
	for _, src := range sources {
		if !strings.Contains(src, cfg.TargetSubdir) {
			continue
		}

		kind, err := classify.Classify(e.Logger, src)
		if err != nil {
			return nil, err
		}

		resolved, err := includes.Resolve(e.Logger, src, headers, e.Registry)
		if err != nil {
			return nil, err
		}

		t, err := New(e.RepoRoot, src, kind, resolved)
		if err != nil {
			return nil, err
		}

		if kind == classify.Test && !cfg.Test {
			continue
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// ScanSharedObjectLibs is a stub: shared-object emission is out of scope
// for this core.
func (e *Explorer) ScanSharedObjectLibs() error {
	return ErrNotImplemented
}

// ScanStaticLibs is a stub: static-library emission is out of scope for
// this core.
func (e *Explorer) ScanStaticLibs() error {
	return ErrNotImplemented
}
