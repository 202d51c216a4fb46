// Package classify implements the source-file classifier (C2): given a
// translation unit, decide whether it is a Library, an Executable, or a
// Test by pattern-matching its content line by line.
package classify

import (
	"bufio"
	"os"
	"path"
	"regexp"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/onursertkaya/kioku/internal/common"
)

// Kind is the tagged variant a source file classifies into.
type Kind int

const (
	Library Kind = iota
	Executable
	Test
)

func (k Kind) String() string {
	switch k {
	case Library:
		return "Library"
	case Executable:
		return "Executable"
	case Test:
		return "Test"
	default:
		return "Unknown"
	}
}

var (
	ErrUnknownSourceKind = goerrors.Errorf("unknown source kind")
	ErrInvalidExtension  = goerrors.Errorf("invalid source extension")

	sourceExtensions = map[string]bool{".cpp": true, ".cxx": true, ".c": true}

	reTest        = regexp.MustCompile(`^(TEST|TEST_F)\(.*\).*`)
	reMain        = regexp.MustCompile(`^(int|void)\s+main\s*\(.*\)`)
	reOwnIncludeH = regexp.MustCompile(`^#include "[^"]*\.(h|hpp)"`)
)

// Classify reads sourcePath line by line and returns its Kind, applying the
// three checks in order: test macros, then a main entrypoint, then any
// quoted header include. Order is load-bearing — library recognition is
// purely include-based and must never mask a test or main file.
func Classify(logger *common.Logger, sourcePath string) (Kind, error) {
	if !sourceExtensions[path.Ext(sourcePath)] {
		return 0, goerrors.WrapPrefix(ErrInvalidExtension, sourcePath, 0)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sawTest := false
	sawMain := false
	sawOwnInclude := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if reTest.MatchString(line) {
			sawTest = true
		}
		if reMain.MatchString(line) {
			sawMain = true
		}
		if reOwnIncludeH.MatchString(line) {
			sawOwnInclude = true
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if sawTest {
		if logger != nil && !strings.Contains(sourcePath, "test") {
			logger.Warn("file classified as Test but its path does not contain \"test\": ", sourcePath)
		}
		return Test, nil
	}
	if sawMain {
		return Executable, nil
	}
	if sawOwnInclude {
		return Library, nil
	}

	return 0, goerrors.WrapPrefix(ErrUnknownSourceKind, sourcePath, 0)
}
