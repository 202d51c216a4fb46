// Package fsscan implements the scan half of C1: a recursive
// extension-filtered file enumeration, memoized by (root, extensions).
// Content hashing lives in internal/common (Checksum).
package fsscan

import (
	"sort"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
)

type scanKey struct {
	root string
	exts string
}

var (
	scanCacheMu sync.Mutex
	scanCache   = map[scanKey][]string{}
)

// Scan returns a sorted list of paths under root (joined onto root, so
// absolute when root is absolute) whose extension
// (including the leading dot, e.g. ".cpp") is in exts. Results are memoized
// per (root, exts) for the process lifetime, mirroring the build tool's
// module-level FS-scan cache.
func Scan(root string, exts []string) ([]string, error) {
	key := scanKey{root: root, exts: strings.Join(exts, ",")}

	scanCacheMu.Lock()
	if cached, ok := scanCache[key]; ok {
		scanCacheMu.Unlock()
		return cached, nil
	}
	scanCacheMu.Unlock()

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	matches := make([]string, 0, 256)
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			for ext := range extSet {
				if strings.HasSuffix(osPathname, ext) {
					matches = append(matches, osPathname)
					return nil
				}
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	scanCacheMu.Lock()
	scanCache[key] = matches
	scanCacheMu.Unlock()

	return matches, nil
}

// HeaderExtensions and SourceExtensions name the extensions the rest of the
// core scans for; kept together here since C1 is the only place that owns
// a raw extension list.
var (
	HeaderExtensions = []string{".h", ".hpp"}
	SourceExtensions = []string{".cpp", ".cxx", ".c"}
)
