package layout

import "testing"

func TestDetermine(t *testing.T) {
	cases := []struct {
		name   string
		source string
		header string
		want   Kind
	}{
		{"header_only", "", "/repo/lib/foo.h", HeaderOnly},
		{"same_directory", "/repo/lib/foo.cpp", "/repo/lib/foo.h", SameDirectory},
		{"relative_nested_source", "/repo/mymod/src/foo.cpp", "/repo/mymod/foo.h", RelativeNestedSource},
		{"relative_nested_header", "/repo/mymod/foo.cpp", "/repo/mymod/include/mymod/foo.h", RelativeNestedHeader},
		{"both_nested", "/repo/mymod/src/foo.cpp", "/repo/mymod/include/mymod/foo.h", BothNested},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			org, err := Determine(c.source, c.header, "/repo")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if org.Kind != c.want {
				t.Fatalf("got %v, want %v", org.Kind, c.want)
			}
		})
	}
}

func TestDetermine_InvalidOrganization(t *testing.T) {
	// module name mismatch: source under "b", header under "wrong"
	_, err := Determine("/repo/a/b/src/c.cpp", "/repo/a/b/include/wrong/c.h", "/repo")
	if err == nil {
		t.Fatal("expected InvalidOrganization error")
	}
}

func TestDetermine_EmptyHeaderRejected(t *testing.T) {
	_, err := Determine("/repo/a.cpp", "", "/repo")
	if err == nil {
		t.Fatal("expected an error for an empty header path")
	}
}

func TestIncludePathFlag(t *testing.T) {
	org, err := Determine("/repo/lib/foo.cpp", "/repo/lib/foo.h", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := org.IncludePathFlag(), "-I/repo/lib"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
