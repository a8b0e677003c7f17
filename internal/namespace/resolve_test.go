package namespace

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		pwd   string
		want  string
	}{
		{"/", "/", "/"},
		{"/..", "/", "/"},
		{"/../..", "/", "/"},
		{"foo", "/a/b", "/a/b/foo"},
		{"..", "/a/b", "/a"},
		{"../..", "/a/b", "/"},
		{"../../..", "/a/b", "/"},
		{".", "/a/b", "/a/b"},
		{"./foo/.", "/a/b", "/a/b/foo"},
		{"/a//b/", "/", "/a/b"},
		{"//a///b", "/", "/a/b"},
		{"/a/b/..", "/", "/a"},
		{"/a/./b", "/", "/a/b"},
		{"a/../c", "/x", "/x/c"},
		{"", "/a/b", "/a/b"},
		{"/", "/a/b", "/"},
		{"b/", "/a", "/a/b"},
	}

	for _, tt := range tests {
		if got := Resolve(tt.input, tt.pwd); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.input, tt.pwd, got, tt.want)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	inputs := []string{"/a//b/", "../x", "foo/./bar", "/..", "a/b/c/.."}
	pwd := "/home/user"

	for _, in := range inputs {
		once := Resolve(in, pwd)
		twice := Resolve(once, pwd)
		if once != twice {
			t.Errorf("Resolve not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b", "/a"},
		{"/a", "/"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := parentPath(tt.path); got != tt.want {
			t.Errorf("parentPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestChildPath(t *testing.T) {
	if got := childPath("/", "a"); got != "/a" {
		t.Errorf("childPath(/, a) = %q", got)
	}
	if got := childPath("/a", "b"); got != "/a/b" {
		t.Errorf("childPath(/a, b) = %q", got)
	}
}
