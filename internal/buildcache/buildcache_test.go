package buildcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onursertkaya/kioku/internal/buildconfig"
	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/includes"
	"github.com/onursertkaya/kioku/internal/target"
)

func makeTarget(t *testing.T, root string, relPath string, content string) target.Target {
	t.Helper()
	src := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	tgt, err := target.New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	return tgt
}

func TestDiff_FirstBuildRebuildsEverything(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	cfg := buildconfig.Config{Compiler: "g++", CppStandard: "17", BuildDir: buildDir}
	tgts := []target.Target{makeTarget(t, root, "lib/foo.cpp", "v1")}

	cache := New(buildDir, nil)
	changed, err := cache.Diff(tgts, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 {
		t.Fatalf("expected the only target to be in the first changelist, got %d", len(changed))
	}
}

func TestDiff_Idempotence(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	cfg := buildconfig.Config{Compiler: "g++", CppStandard: "17", BuildDir: buildDir}
	tgts := []target.Target{makeTarget(t, root, "lib/foo.cpp", "v1")}

	cache := New(buildDir, nil)
	if _, err := cache.Diff(tgts, cfg); err != nil {
		t.Fatal(err)
	}

	changed, err := cache.Diff(tgts, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 0 {
		t.Fatalf("second identical build should yield an empty changelist, got %d", len(changed))
	}
}

func TestDiff_ForceBuildPreservesSubsequentIncrementalBehavior(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	cfg := buildconfig.Config{Compiler: "g++", CppStandard: "17", BuildDir: buildDir}
	tgts := []target.Target{makeTarget(t, root, "lib/foo.cpp", "v1")}

	cache := New(buildDir, nil)

	forced := cfg
	forced.ForceBuild = true
	if _, err := cache.Diff(tgts, forced); err != nil {
		t.Fatal(err)
	}

	changed, err := cache.Diff(tgts, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 0 {
		t.Fatalf("a non-forced build after a forced build with no source changes should be empty, got %d", len(changed))
	}
}

func TestDiff_ConfigChangeTriggersFullRebuild(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	cfg := buildconfig.Config{Compiler: "g++", CppStandard: "17", BuildDir: buildDir}
	tgts := []target.Target{makeTarget(t, root, "lib/foo.cpp", "v1")}

	cache := New(buildDir, nil)
	if _, err := cache.Diff(tgts, cfg); err != nil {
		t.Fatal(err)
	}

	changedCfg := cfg
	changedCfg.CppStandard = "20"
	changed, err := cache.Diff(tgts, changedCfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != len(tgts) {
		t.Fatalf("a build-config change must rebuild the full current target set, got %d of %d", len(changed), len(tgts))
	}
}

func TestDiff_EditedSourceInvalidatesTarget(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	cfg := buildconfig.Config{Compiler: "g++", CppStandard: "17", BuildDir: buildDir}

	tgt := makeTarget(t, root, "lib/foo.cpp", "v1")
	cache := New(buildDir, nil)
	if _, err := cache.Diff([]target.Target{tgt}, cfg); err != nil {
		t.Fatal(err)
	}

	edited := makeTarget(t, root, "lib/foo.cpp", "v2, a real change")
	changed, err := cache.Diff([]target.Target{edited}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 {
		t.Fatalf("expected the edited target to reappear in the changelist, got %d", len(changed))
	}
}
