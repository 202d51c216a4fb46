// Package includes implements C4: parsing `#include "…"` lines and
// resolving each token as an own-header, an internal (in-repo) header, or
// an external (registered-dependency) header, closing the internal set
// transitively.
//
// Matching is intentionally a substring search against the repo's full
// header list rather than a preprocessor-accurate resolution — lenient
// enough to accommodate includes written as a short relative path. A
// stricter rewrite could fail fast on more-than-one substring match; this
// implementation preserves the exact original semantics of "first header
// found wins" for internal/own-header search, for compatibility.
package includes

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/depreg"
)

var (
	ErrUnresolvedInclude   = goerrors.Errorf("unresolved include")
	ErrInvalidOrganization = goerrors.Errorf("invalid module organization")

	reIncludeToken = regexp.MustCompile(`^#include "([^"]+\.(?:h|hpp))"$`)
)

var headerExtensions = []string{".h", ".hpp"}

// Headers is the resolved include set for one source file.
type Headers struct {
	OwnHeader string   // "" if none
	Internal  []string // sorted, excludes OwnHeader
	External  []string // sorted
}

// parseIncludeTokens reads a file line by line and returns the quoted
// argument of every line matching `^#include "<path>\.(h|hpp)"$`.
func parseIncludeTokens(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := reIncludeToken.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, m[1])
		}
	}
	return tokens, scanner.Err()
}

// findHeaderContaining returns the first header path (in iteration order of
// allHeaders) that contains token as a substring.
func findHeaderContaining(allHeaders []string, token string) (string, bool) {
	for _, h := range allHeaders {
		if strings.Contains(h, token) {
			return h, true
		}
	}
	return "", false
}

// Resolve produces the Headers value for sourcePath, given the full
// in-repo header universe and the dependency registry.
func Resolve(logger *common.Logger, sourcePath string, allHeaders []string, registry *depreg.Registry) (Headers, error) {
	ownCandidates := make([]string, 0, 1)
	internalSet := map[string]bool{}
	externalSet := map[string]bool{}

	stem := strings.TrimSuffix(path.Base(sourcePath), path.Ext(sourcePath))

	// collectInternal recurses through a header's own #include tokens,
	// extending internalSet. Unlike the top-level pass, it never runs the
	// own-header or external searches: a header nested two levels deep
	// that happens to pull in a dependency header is still classified as
	// an internal-include edge, matching collect_headers_recursively in
	// the tool this was distilled from, which only ever extends the
	// internal set on recursion.
	visited := map[string]bool{}
	var collectInternal func(filePath string) error
	collectInternal = func(filePath string) error {
		if visited[filePath] {
			return nil
		}
		visited[filePath] = true

		tokens, err := parseIncludeTokens(filePath)
		if err != nil {
			return err
		}

		for _, token := range tokens {
			h, found := findHeaderContaining(allHeaders, token)
			if !found {
				return goerrors.WrapPrefix(ErrUnresolvedInclude, fmt.Sprintf("%s: %s", filePath, token), 0)
			}
			if !internalSet[h] {
				internalSet[h] = true
				if err := collectInternal(h); err != nil {
					return err
				}
			}
		}
		return nil
	}

	tokens, err := parseIncludeTokens(sourcePath)
	if err != nil {
		return Headers{}, err
	}

	for _, token := range tokens {
		matchedAny := false

		// own-header search
		for _, ext := range headerExtensions {
			candidate := stem + ext
			if strings.Contains(token, candidate) {
				if h, found := findHeaderContaining(allHeaders, token); found {
					ownCandidates = append(ownCandidates, h)
					matchedAny = true
				}
			}
		}

		// external search
		if dep, found := registry.MatchIncludeStatement(token); found {
			externalSet[path.Join(registry.Root, dep.HeaderRelpath())] = true
			matchedAny = true
		}

		// internal search (own-header candidates also land here; removed in post-processing)
		if h, found := findHeaderContaining(allHeaders, token); found {
			if !internalSet[h] {
				internalSet[h] = true
				if err := collectInternal(h); err != nil {
					return Headers{}, err
				}
			}
			matchedAny = true
		}

		if !matchedAny {
			return Headers{}, goerrors.WrapPrefix(ErrUnresolvedInclude, fmt.Sprintf("%s: %s", sourcePath, token), 0)
		}
	}

	result := Headers{}

	if len(ownCandidates) > 1 {
		return Headers{}, goerrors.WrapPrefix(ErrInvalidOrganization,
			fmt.Sprintf("%s: multiple own-header candidates %v", sourcePath, ownCandidates), 0)
	}

	if len(ownCandidates) == 0 {
		base := path.Base(sourcePath)
		if !strings.Contains(base, "test") && !strings.Contains(base, "main") {
			kind, err := classify.Classify(logger, sourcePath)
			if err != nil {
				return Headers{}, err
			}
			if kind == classify.Library {
				return Headers{}, goerrors.WrapPrefix(ErrInvalidOrganization,
					fmt.Sprintf("%s: library source has no own-header", sourcePath), 0)
			}
		}
	} else {
		result.OwnHeader = ownCandidates[0]
		delete(internalSet, result.OwnHeader)
	}

	result.Internal = sortedKeys(internalSet)
	result.External = sortedKeys(externalSet)
	return result, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
