// Package target implements C6 (the Target model) and C7 (target
// exploration): building an immutable Target per translation unit and
// walking a repository to produce the full target list.
package target

import (
	"path/filepath"
	"sort"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/includes"
)

var ErrNotBuildable = goerrors.Errorf("executable path requested for a non-executable target")

// Target is an immutable record of one translation unit: its source path,
// resolved includes, source-content hash, and the set of hashes over every
// header it (transitively) includes.
type Target struct {
	SourcePath       string
	Kind             classify.Kind
	Headers          includes.Headers
	SourceChecksum   common.Checksum
	IncludeChecksums map[common.Checksum]bool

	repoRoot string
}

// Name is the source path made relative to the repo root with path
// separators replaced by '-'.
func (t Target) Name() string {
	rel, err := filepath.Rel(t.repoRoot, t.SourcePath)
	if err != nil {
		rel = t.SourcePath
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "-")
}

func (t Target) ObjectFilePath(buildDir string) string {
	return filepath.Join(buildDir, "obj", common.ReplaceFileExt(t.Name(), ".o"))
}

// ExecutableFilePath returns the executable path for Executable/Test
// targets; it is illegal (ErrNotBuildable) for Library.
func (t Target) ExecutableFilePath(buildDir string) (string, error) {
	switch t.Kind {
	case classify.Executable:
		return filepath.Join(buildDir, "bin", t.Name()), nil
	case classify.Test:
		return filepath.Join(buildDir, "test", t.Name()), nil
	default:
		return "", goerrors.WrapPrefix(ErrNotBuildable, t.SourcePath, 0)
	}
}

// ChecksumsMatch requires equal name and compares the source checksum and
// the include-checksum set (order-independent).
func (t Target) ChecksumsMatch(other Target) bool {
	if t.Name() != other.Name() {
		return false
	}
	if t.SourceChecksum != other.SourceChecksum {
		return false
	}
	if len(t.IncludeChecksums) != len(other.IncludeChecksums) {
		return false
	}
	for c := range t.IncludeChecksums {
		if !other.IncludeChecksums[c] {
			return false
		}
	}
	return true
}

// SortedIncludeChecksums is a deterministic view of IncludeChecksums, used
// by the cache serializer.
func (t Target) SortedIncludeChecksums() []common.Checksum {
	out := make([]common.Checksum, 0, len(t.IncludeChecksums))
	for c := range t.IncludeChecksums {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hi != out[j].Hi {
			return out[i].Hi < out[j].Hi
		}
		return out[i].Lo < out[j].Lo
	})
	return out
}

// New builds a Target from a source path and its already-resolved
// IncludedHeaders, computing the source checksum and the include-checksum
// set over own ∪ internal ∪ external.
func New(repoRoot, sourcePath string, kind classify.Kind, headers includes.Headers) (Target, error) {
	srcChecksum, err := common.ChecksumFile(sourcePath)
	if err != nil {
		return Target{}, err
	}

	allIncluded := make([]string, 0, 1+len(headers.Internal)+len(headers.External))
	if headers.OwnHeader != "" {
		allIncluded = append(allIncluded, headers.OwnHeader)
	}
	allIncluded = append(allIncluded, headers.Internal...)
	allIncluded = append(allIncluded, headers.External...)

	includeChecksums := make(map[common.Checksum]bool, len(allIncluded))
	for _, h := range allIncluded {
		c, err := common.ChecksumFile(h)
		if err != nil {
			return Target{}, err
		}
		includeChecksums[c] = true
	}

	return Target{
		SourcePath:       sourcePath,
		Kind:             kind,
		Headers:          headers,
		SourceChecksum:   srcChecksum,
		IncludeChecksums: includeChecksums,
		repoRoot:         repoRoot,
	}, nil
}
