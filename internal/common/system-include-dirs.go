package common

import (
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

var (
	sysIncludeDirsOnce  sync.Map // compiler name -> []string (memoized, process-wide)
	sysIncludeDirsRegex = regexp.MustCompile(`^\s(/\S+)\s*$`)
)

// SystemIncludeDirs probes a compiler's default include search path via
// `<compiler> -xc++ -E -v /dev/null`, reading the "#include <...> search
// starts here" section of its stderr. The result is memoized per compiler
// name for the lifetime of the process, matching the original tool's
// module-level cache. This is a diagnostic helper only, logged once at
// startup: the include resolver never consults it for correctness, since
// it is deliberately not preprocessor-accurate.
func SystemIncludeDirs(compiler string) []string {
	if cached, ok := sysIncludeDirsOnce.Load(compiler); ok {
		return cached.([]string)
	}

	dirs := probeSystemIncludeDirs(compiler)
	sysIncludeDirsOnce.Store(compiler, dirs)
	return dirs
}

func probeSystemIncludeDirs(compiler string) []string {
	cmd := exec.Command(compiler, "-xc++", "-E", "-v", "/dev/null")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	_ = cmd.Run()

	lines := strings.Split(stderr.String(), "\n")
	inSearchList := false
	dirs := make([]string, 0, 8)
	for _, line := range lines {
		if strings.Contains(line, "search starts here") {
			inSearchList = true
			continue
		}
		if strings.HasPrefix(line, "End of search list") {
			break
		}
		if inSearchList {
			if m := sysIncludeDirsRegex.FindStringSubmatch(line); m != nil {
				dirs = append(dirs, m[1])
			}
		}
	}
	return dirs
}
