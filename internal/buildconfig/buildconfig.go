// Package buildconfig holds the BuildConfig value object: the parameters
// an external front-end (out of scope for this core) supplies to a build.
package buildconfig

// Config is immutable once constructed; no method mutates it.
//
// ForceBuild is deliberately excluded from Equal: a forced build must not
// invalidate the cache-config comparison that subsequent, non-forced builds
// rely on, or every build after a `--force-build` run would also appear
// "changed" and rebuild everything again. See buildcache.Cache.Diff.
type Config struct {
	Debug          bool
	Compiler       string
	Optimize       bool
	CppStandard    string // one of "11", "14", "17", "20"
	BuildDir       string
	TargetSubdir   string // substring used to select sources
	Test           bool
	ThirdPartyRoot string
	ForceBuild     bool
}

// Equal compares two Configs field by field, excluding ForceBuild.
func (c Config) Equal(other Config) bool {
	return c.Debug == other.Debug &&
		c.Compiler == other.Compiler &&
		c.Optimize == other.Optimize &&
		c.CppStandard == other.CppStandard &&
		c.BuildDir == other.BuildDir &&
		c.TargetSubdir == other.TargetSubdir &&
		c.Test == other.Test &&
		c.ThirdPartyRoot == other.ThirdPartyRoot
}
