package includes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onursertkaya/kioku/internal/depreg"
)

func writeFile(t *testing.T, p string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_LibraryOwnHeaderAndInternalClosure(t *testing.T) {
	root := t.TempDir()
	fooH := filepath.Join(root, "lib", "foo.h")
	baseH := filepath.Join(root, "lib", "base.h")
	fooCpp := filepath.Join(root, "lib", "foo.cpp")

	writeFile(t, baseH, "int base();\n")
	writeFile(t, fooH, "#include \"lib/base.h\"\nint foo();\n")
	writeFile(t, fooCpp, "#include \"lib/foo.h\"\nint foo() { return base(); }\n")

	allHeaders := []string{fooH, baseH}
	registry := depreg.NewDefaultRegistry(filepath.Join(root, "third_party"))

	result, err := Resolve(nil, fooCpp, allHeaders, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OwnHeader != fooH {
		t.Fatalf("got own header %q, want %q", result.OwnHeader, fooH)
	}
	if len(result.Internal) != 1 || result.Internal[0] != baseH {
		t.Fatalf("expected base.h as the only internal header, got %v", result.Internal)
	}
}

func TestResolve_External(t *testing.T) {
	root := t.TempDir()
	thirdParty := filepath.Join(root, "third_party")
	gtestH := filepath.Join(thirdParty, "googletest", "googletest", "include", "gtest", "gtest.h")
	writeFile(t, gtestH, "// gtest header\n")

	testCpp := filepath.Join(root, "test", "test_foo.cpp")
	writeFile(t, testCpp, "#include \"gtest/gtest.h\"\nTEST(A,B){}\n")

	registry := depreg.NewDefaultRegistry(thirdParty)
	result, err := Resolve(nil, testCpp, nil, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.External) != 1 || result.External[0] != gtestH {
		t.Fatalf("expected gtest.h as external, got %v", result.External)
	}
}

func TestResolve_UnresolvedInclude(t *testing.T) {
	root := t.TempDir()
	srcPath := filepath.Join(root, "a", "b.cpp")
	writeFile(t, srcPath, "#include \"does_not_exist.h\"\nint main(){return 0;}\n")

	registry := depreg.NewDefaultRegistry(filepath.Join(root, "third_party"))
	_, err := Resolve(nil, srcPath, nil, registry)
	if err == nil {
		t.Fatal("expected an unresolved-include error")
	}
}
