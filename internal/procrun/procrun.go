// Package procrun implements C11: synchronous subprocess invocation with
// pretty-printed command echo, colored error reporting, and optional
// silent / keep-running modes.
package procrun

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	goerrors "github.com/go-errors/errors"
	"golang.org/x/term"
)

var ErrSpawnFailed = goerrors.Errorf("subprocess spawn failed")

// wordLengthThreshold: a single token this long or longer never leads a
// group — it is not paired with the token after it, even if the two would
// otherwise form a flag/value or irrelevant pair. It can still be the
// second member of a pair started by the token before it.
const wordLengthThreshold = 40

// Options controls how Run behaves.
type Options struct {
	Silent      bool // buffer child stdout/stderr (written to stderr only on failure), skip the command echo
	KeepRunning bool // on nonzero exit, return an error instead of exiting the process
}

// Run executes argv synchronously, streaming child output to the parent
// unless Silent. On nonzero exit it prints a colored error with message; if
// KeepRunning is false, it terminates the process with status -1 (matching
// the tool this is modeled on), otherwise it returns ErrSpawnFailed.
func Run(message string, argv []string, opts Options) error {
	if len(argv) == 0 {
		return goerrors.WrapPrefix(ErrSpawnFailed, "empty command", 0)
	}

	if !opts.Silent {
		printCommand(argv)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	if opts.Silent {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	errColor := color.New(color.FgRed, color.Bold)
	errColor.Fprintf(os.Stderr, "FAILED: %s\n", message)
	if opts.Silent {
		os.Stderr.Write(stdout.Bytes())
		os.Stderr.Write(stderr.Bytes())
	}

	if !opts.KeepRunning {
		os.Exit(-1)
	}
	return goerrors.WrapPrefix(ErrSpawnFailed, message, 0)
}

// printCommand pretty-prints argv on one line, unless the whole command
// line is at least half the terminal width long — in which case it wraps,
// grouping a flag with its value (e.g. "-o foo") or two adjacent
// non-flag tokens (e.g. consecutive object-file paths) onto one line.
func printCommand(argv []string) {
	sep := color.New(color.FgHiBlack)
	sep.Println(strings.Repeat("=", termWidth()/2))

	cmdColor := color.New(color.FgCyan)
	cmdColor.Println(formatCommandLine(argv, termWidth()))
}

// formatCommandLine mirrors fancy.py's _format_line: join argv with spaces;
// if that's shorter than half width, return it as-is. Otherwise walk token
// by token, grouping a flag with the value that follows it, or two adjacent
// non-flag tokens, onto one visual line, joined by "\n\t". width is the
// caller's terminal column count, threaded through explicitly so the
// wrapping decision is testable without a real terminal.
func formatCommandLine(argv []string, width int) string {
	joined := strings.Join(argv, " ")
	if len(joined) < width/2 {
		return joined
	}

	var lines []string
	skipNext := false
	isFlag := func(w string) bool { return strings.HasPrefix(w, "-") }

	// The tool this is modeled on breaks out of its loop as soon as it
	// reaches the second-to-last token, appending only that token and
	// silently dropping the final one. Guarding on "is this the last
	// token" instead keeps every word in the output.
	for i, word := range argv {
		if skipNext {
			skipNext = false
			continue
		}
		if i == len(argv)-1 {
			lines = append(lines, word)
			break
		}
		next := argv[i+1]

		switch {
		case len(word) >= wordLengthThreshold:
			lines = append(lines, word)
		case isFlag(word) && !isFlag(next): // flag/value pair
			lines = append(lines, word+" "+next)
			skipNext = true
		case !isFlag(word) && !isFlag(next): // two adjacent non-flag tokens
			lines = append(lines, word+" "+next)
			skipNext = true
		default:
			lines = append(lines, word)
		}
	}
	return strings.Join(lines, "\n\t")
}

// termWidth returns the current terminal column count, or a sane fallback
// when stdout isn't a terminal (e.g. piped output, CI logs).
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
