// Package buildcache implements C8: persisting a snapshot of (targets,
// build config) across invocations and computing the changelist between
// the current and previous snapshot.
package buildcache

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"

	goerrors "github.com/go-errors/errors"
	"github.com/dustin/go-humanize"
	"github.com/onursertkaya/kioku/internal/buildconfig"
	"github.com/onursertkaya/kioku/internal/common"
	"github.com/onursertkaya/kioku/internal/target"
)

var ErrCorruptCache = goerrors.Errorf("corrupt build cache")

// schemaVersion guards against decoding a blob written by an incompatible
// version of this tool; a mismatch is treated exactly like a missing file.
const schemaVersion = 1

// CachedTarget is the serializable projection of a target.Target: enough
// to recompute ChecksumsMatch without re-reading any files.
type CachedTarget struct {
	Name             string
	SourcePath       string
	OwnHeader        string
	Internal         []string
	External         []string
	SourceChecksum   common.Checksum
	IncludeChecksums []common.Checksum
}

func checksumsMatch(a CachedTarget, b CachedTarget) bool {
	if a.Name != b.Name || a.SourceChecksum != b.SourceChecksum {
		return false
	}
	if len(a.IncludeChecksums) != len(b.IncludeChecksums) {
		return false
	}
	bSet := make(map[common.Checksum]bool, len(b.IncludeChecksums))
	for _, c := range b.IncludeChecksums {
		bSet[c] = true
	}
	for _, c := range a.IncludeChecksums {
		if !bSet[c] {
			return false
		}
	}
	return true
}

func toCachedTarget(t target.Target) CachedTarget {
	return CachedTarget{
		Name:             t.Name(),
		SourcePath:       t.SourcePath,
		OwnHeader:        t.Headers.OwnHeader,
		Internal:         t.Headers.Internal,
		External:         t.Headers.External,
		SourceChecksum:   t.SourceChecksum,
		IncludeChecksums: t.SortedIncludeChecksums(),
	}
}

// Snapshot is the persisted unit: whether it represents a real prior build
// (Valid), the targets observed then, and the BuildConfig in effect then.
type Snapshot struct {
	SchemaVersion int
	Valid         bool
	Targets       []CachedTarget
	Config        buildconfig.Config
}

// Cache reads and writes a Snapshot blob under a build directory.
type Cache struct {
	path   string
	logger *common.Logger
}

func New(buildDir string, logger *common.Logger) *Cache {
	return &Cache{path: filepath.Join(buildDir, "kioku_cache.gob"), logger: logger}
}

// Load reads the persisted snapshot. A missing file, a file that fails to
// decode, or a schema-version mismatch are all treated identically: an
// "absent" synthesized snapshot is returned and, for the latter two, the
// condition is logged rather than propagated as an error.
func (c *Cache) Load() Snapshot {
	absent := Snapshot{SchemaVersion: schemaVersion, Valid: false}

	content, err := os.ReadFile(c.path)
	if err != nil {
		return absent
	}

	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&s); err != nil {
		if c.logger != nil {
			c.logger.Warn("corrupt build cache at ", c.path, ": ", err)
		}
		return absent
	}
	if s.SchemaVersion != schemaVersion {
		if c.logger != nil {
			c.logger.Warn("build cache schema mismatch at ", c.path)
		}
		return absent
	}
	return s
}

// Save persists a Snapshot, writing to a temp file alongside c.path and
// renaming it into place, so a process killed mid-write never leaves a
// half-written, undecodable cache file behind.
func (c *Cache) Save(s Snapshot) error {
	if err := common.MkdirForFile(c.path); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}

	tmp, err := common.OpenTempFile(c.path)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return err
	}

	if c.logger != nil {
		c.logger.Info(1, "wrote build cache (", humanize.Bytes(uint64(buf.Len())), ") to ", c.path)
	}
	return nil
}

// Diff loads the previous snapshot, persists the current one — BEFORE
// returning the changelist, so that a crash mid-build still preserves the
// intent of the attempted build, and so a failed target's new checksum is
// recorded and will not be retried until the source changes again — and
// returns the subset of currentTargets that must be rebuilt.
//
// Do not "fix" the persist-before-build ordering: it is a known, preserved
// behavior, not an oversight.
func (c *Cache) Diff(currentTargets []target.Target, cfg buildconfig.Config) ([]target.Target, error) {
	previous := c.Load()

	cachedCurrent := make([]CachedTarget, 0, len(currentTargets))
	for _, t := range currentTargets {
		cachedCurrent = append(cachedCurrent, toCachedTarget(t))
	}
	current := Snapshot{SchemaVersion: schemaVersion, Valid: true, Targets: cachedCurrent, Config: cfg}

	if err := c.Save(current); err != nil {
		return nil, err
	}

	if !cfg.Equal(previous.Config) || cfg.ForceBuild || !previous.Valid {
		return currentTargets, nil
	}

	changed := make([]target.Target, 0, len(currentTargets))
	for i, t := range currentTargets {
		name := cachedCurrent[i].Name
		var matches []CachedTarget
		for _, p := range previous.Targets {
			if p.Name == name {
				matches = append(matches, p)
			}
		}
		switch len(matches) {
		case 0:
			changed = append(changed, t)
		case 1:
			if !checksumsMatch(cachedCurrent[i], matches[0]) {
				changed = append(changed, t)
			}
		default:
			return nil, goerrors.WrapPrefix(ErrCorruptCache, name, 0)
		}
	}
	return changed, nil
}
