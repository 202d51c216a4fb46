// kioku is a minimal demonstration front-end for the build core. A real
// command-line tool (subcommands, config-file loading, dependency
// fetching, the container execution wrapper) is out of scope for this
// repository; this binary exists only to wire the core components
// together for a single "build" invocation.
package main

import (
	"fmt"
	"os"

	"github.com/onursertkaya/kioku/internal/buildcache"
	"github.com/onursertkaya/kioku/internal/buildconfig"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/compiler"
	"github.com/onursertkaya/kioku/internal/depreg"
	"github.com/onursertkaya/kioku/internal/linker"
	"github.com/onursertkaya/kioku/internal/target"
)

var (
	argRepoRoot       = common.CmdEnvString("path to the repository root", ".", "repo-root", "KIOKU_REPO_ROOT")
	argBuildDir       = common.CmdEnvString("build output directory", "build", "build-dir", "KIOKU_BUILD_DIR")
	argThirdPartyRoot = common.CmdEnvString("third-party dependency checkout root", "third_party", "third-party-root", "KIOKU_THIRDPARTY_ROOT")
	argTargetSubdir   = common.CmdEnvString("substring filtering which sources to build", "", "target", "KIOKU_TARGET")
	argCompiler       = common.CmdEnvString("compiler binary name", "g++", "compiler", "KIOKU_COMPILER")
	argCppStandard    = common.CmdEnvString("C++ standard", "17", "cpp-standard", "KIOKU_CPP_STANDARD")
	argExtraCxxFlags  = common.CmdEnvString("additional flags passed verbatim to the compiler", "", "extra-cxx-flags", "KIOKU_EXTRA_CXX_FLAGS")
	argDebug          = common.CmdEnvBool("compile with -ggdb3", false, "debug", "KIOKU_DEBUG")
	argOptimize       = common.CmdEnvBool("compile with -O3 (ignored for tests)", false, "optimize", "KIOKU_OPTIMIZE")
	argTest           = common.CmdEnvBool("include and build test targets", false, "test", "KIOKU_TEST")
	argForceBuild     = common.CmdEnvBool("rebuild every target regardless of the cache", false, "force-build", "KIOKU_FORCE_BUILD")
	argKeepRunning    = common.CmdEnvBool("continue past a failed compile/link instead of aborting", false, "keep-running", "KIOKU_KEEP_RUNNING")
	argSilent         = common.CmdEnvBool("hide child process output unless the command fails", false, "silent", "KIOKU_SILENT")
	argVerbosity      = common.CmdEnvInt("log verbosity (-1..2)", 1, "v", "KIOKU_VERBOSITY")
	argLogFile        = common.CmdEnvString("log file path (stderr if empty)", "stderr", "log-file", "KIOKU_LOG_FILE")
	argShowVersion    = common.CmdEnvBool("show version and exit", false, "version", "")
)

func failedStart(logger *common.Logger, reason string, err error) {
	msg := fmt.Sprintf("%s: %v", reason, err)
	if logger != nil {
		logger.Error(msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

func main() {
	common.ParseCmdFlagsCombiningWithEnv()

	if *argShowVersion {
		fmt.Println(common.GetVersion())
		return
	}

	logger, err := common.NewLogger(*argLogFile, int(*argVerbosity))
	if err != nil {
		failedStart(nil, "could not init logger", err)
	}

	repoRoot := common.RepoRoot(*argRepoRoot, *argRepoRoot)
	logger.Info(2, "compiler system include dirs: ", common.SystemIncludeDirs(*argCompiler))

	cfg := buildconfig.Config{
		Debug:          *argDebug,
		Compiler:       *argCompiler,
		Optimize:       *argOptimize,
		CppStandard:    *argCppStandard,
		BuildDir:       *argBuildDir,
		TargetSubdir:   *argTargetSubdir,
		Test:           *argTest,
		ThirdPartyRoot: *argThirdPartyRoot,
		ForceBuild:     *argForceBuild,
	}

	registry := depreg.NewDefaultRegistry(cfg.ThirdPartyRoot)

	explorer := &target.Explorer{RepoRoot: repoRoot, Registry: registry, Logger: logger}
	targets, err := explorer.Explore(cfg)
	if err != nil {
		failedStart(logger, "target exploration failed", err)
	}

	cache := buildcache.New(cfg.BuildDir, logger)
	changed, err := cache.Diff(targets, cfg)
	if err != nil {
		failedStart(logger, "build cache diff failed", err)
	}

	compileDriver := &compiler.Driver{RepoRoot: repoRoot, BuildDir: cfg.BuildDir, Registry: registry, Logger: logger}
	compileCfg := compiler.Config{
		Compiler:      cfg.Compiler,
		CppStandard:   cfg.CppStandard,
		Debug:         cfg.Debug,
		Optimize:      cfg.Optimize,
		ExtraCxxFlags: *argExtraCxxFlags,
		KeepRunning:   *argKeepRunning,
		Silent:        *argSilent,
	}
	if err := compileDriver.Compile(changed, compileCfg); err != nil {
		failedStart(logger, "compilation failed", err)
	}

	linkDriver := &linker.Driver{RepoRoot: repoRoot, BuildDir: cfg.BuildDir, Registry: registry, Logger: logger}
	linkCfg := linker.Config{
		Compiler:    cfg.Compiler,
		Debug:       cfg.Debug,
		KeepRunning: *argKeepRunning,
		Silent:      *argSilent,
	}
	if err := linkDriver.Link(targets, changed, linkCfg); err != nil {
		failedStart(logger, "linking failed", err)
	}
}
