package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTmp(t *testing.T, name string, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		want    Kind
	}{
		{"library", "foo.cpp", "#include \"foo.h\"\nint foo() { return 1; }\n", Library},
		{"executable", "main.cpp", "#include \"foo.h\"\nint main(int argc, char** argv) { return 0; }\n", Executable},
		{"test_fixture", "test_foo.cpp", "#include \"foo.h\"\nTEST_F(FooTest, Works) {}\n", Test},
		{"test_plain", "test_foo.cpp", "TEST(Foo, Works) {}\n", Test},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := writeTmp(t, c.file, c.content)
			got, err := Classify(nil, p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestClassify_TestMacroOutranksMainAndInclude(t *testing.T) {
	p := writeTmp(t, "weird.cpp", "#include \"foo.h\"\nint main() { return 0; }\nTEST(A,B) {}\n")
	got, err := Classify(nil, p)
	if err != nil {
		t.Fatal(err)
	}
	if got != Test {
		t.Fatalf("got %v, want Test", got)
	}
}

func TestClassify_UnknownSourceKind(t *testing.T) {
	p := writeTmp(t, "empty.cpp", "// nothing here\n")
	_, err := Classify(nil, p)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestClassify_InvalidExtension(t *testing.T) {
	p := writeTmp(t, "readme.md", "# not a source file\n")
	_, err := Classify(nil, p)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestClassify_Determinism(t *testing.T) {
	p := writeTmp(t, "foo.cpp", "#include \"foo.h\"\n")
	first, err := Classify(nil, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := Classify(nil, p)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("classification changed across repeated calls: %v vs %v", first, got)
		}
	}
}
