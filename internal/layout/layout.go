// Package layout implements C5: module-organization inference. Given a
// (possibly absent) source path and a header path, it determines which of
// five fixed directory layouts describes their relationship, and emits the
// compiler include-path flag for that layout.
//
// This is modeled as a tagged variant (Kind) with one pure function,
// Determine, from (optional source, header) to Kind — rather than the
// abstract-base-plus-five-subclasses shape of the tool this was distilled
// from.
package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	goerrors "github.com/go-errors/errors"
)

var ErrInvalidOrganization = goerrors.Errorf("invalid module organization")

type Kind int

const (
	HeaderOnly Kind = iota
	SameDirectory
	RelativeNestedSource
	RelativeNestedHeader
	BothNested
)

func (k Kind) String() string {
	switch k {
	case HeaderOnly:
		return "HeaderOnly"
	case SameDirectory:
		return "SameDirectory"
	case RelativeNestedSource:
		return "RelativeNestedSource"
	case RelativeNestedHeader:
		return "RelativeNestedHeader"
	case BothNested:
		return "BothNested"
	default:
		return "Unknown"
	}
}

// Organization is the resolved variant plus enough context to compute its
// include-path flag.
type Organization struct {
	Kind     Kind
	header   string
	repoRoot string
	module   string // the common-ancestor directory M
}

// Determine selects a variant for (source, header). source == "" models the
// "no source" case used when querying the include flag for headers reached
// only transitively (C9 step 1 uses S=∅ for internal headers).
func Determine(source string, header string, repoRoot string) (Organization, error) {
	if header == "" {
		return Organization{}, goerrors.WrapPrefix(ErrInvalidOrganization, "empty header path", 0)
	}

	if source == "" {
		return Organization{Kind: HeaderOnly, header: header, repoRoot: repoRoot}, nil
	}

	srcDir := filepath.Dir(source)
	hdrDir := filepath.Dir(header)
	m := commonPathPrefix(srcDir, hdrDir)

	switch {
	case srcDir == m && hdrDir == m:
		return Organization{Kind: SameDirectory, header: header, repoRoot: repoRoot, module: m}, nil

	case srcDir == filepath.Join(m, "src") && hdrDir == m:
		return Organization{Kind: RelativeNestedSource, header: header, repoRoot: repoRoot, module: m}, nil

	case srcDir == m && hdrDir == filepath.Join(m, "include", filepath.Base(m)):
		return Organization{Kind: RelativeNestedHeader, header: header, repoRoot: repoRoot, module: m}, nil

	case srcDir == filepath.Join(m, "src") && hdrDir == filepath.Join(m, "include", filepath.Base(m)):
		return Organization{Kind: BothNested, header: header, repoRoot: repoRoot, module: m}, nil

	default:
		return Organization{}, goerrors.WrapPrefix(ErrInvalidOrganization,
			fmt.Sprintf("source=%q header=%q", source, header), 0)
	}
}

// commonPathPrefix returns the longest common ancestor directory of a and
// b. The reference implementation compares the two paths character by
// character and truncates to the preceding separator; doing the comparison
// component-wise instead gives the same result for well-formed inputs
// without the character-zip approach's edge cases around one module name
// being a prefix of another (e.g. "mymod" vs "mymodule").
func commonPathPrefix(a, b string) string {
	sep := string(filepath.Separator)
	aParts := strings.Split(filepath.Clean(a), sep)
	bParts := strings.Split(filepath.Clean(b), sep)

	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}
	i := 0
	for i < n && aParts[i] == bParts[i] {
		i++
	}

	joined := strings.Join(aParts[:i], sep)
	if joined == "" {
		joined = sep
	}
	return joined
}

// IncludePathFlag emits the -I flag for this organization, per C5's table.
func (o Organization) IncludePathFlag() string {
	switch o.Kind {
	case HeaderOnly:
		return "-I" + parents(o.header, 2)
	case SameDirectory:
		return "-I" + filepath.Dir(o.header)
	case RelativeNestedSource:
		return "-I" + o.repoRoot
	case RelativeNestedHeader, BothNested:
		return "-I" + parents(o.header, 2)
	default:
		return ""
	}
}

// parents returns the k-th ancestor directory of p.
func parents(p string, k int) string {
	for i := 0; i < k; i++ {
		p = filepath.Dir(p)
	}
	return p
}
