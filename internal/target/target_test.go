package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onursertkaya/kioku/internal/classify"
	"github.com/onursertkaya/kioku/internal/includes"
)

func TestTarget_Name(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib", "foo.cpp")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	tgt, err := New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tgt.Name(), "lib-foo.cpp"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTarget_ObjectAndExecutablePaths(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "app", "main.cpp")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	tgt, err := New(root, src, classify.Executable, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := tgt.ObjectFilePath("build"), filepath.Join("build", "obj", "app-main.o"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	exe, err := tgt.ExecutableFilePath("build")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("build", "bin", "app-main.cpp"); exe != want {
		t.Fatalf("got %q, want %q", exe, want)
	}
}

func TestTarget_LibraryHasNoExecutablePath(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib", "foo.cpp")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	tgt, err := New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tgt.ExecutableFilePath("build"); err == nil {
		t.Fatal("expected an error requesting an executable path for a Library target")
	}
}

func TestTarget_ChecksumsMatch(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib", "foo.cpp")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("content v1"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	if !a.ChecksumsMatch(b) {
		t.Fatal("two targets built from identical unchanged content should match")
	}

	if err := os.WriteFile(src, []byte("content v2, changed"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := New(root, src, classify.Library, includes.Headers{})
	if err != nil {
		t.Fatal(err)
	}
	if a.ChecksumsMatch(c) {
		t.Fatal("a changed source must not checksum-match the original")
	}
}
