package filter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIgnoreFile(t *testing.T) {
	root := t.TempDir()
	gitignore := "# build output\nout/\n*.log\n\n!keep.log\nsub/generated\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil)
	if err := e.LoadIgnoreFile(root); err != nil {
		t.Fatalf("LoadIgnoreFile: %v", err)
	}

	cases := []struct {
		rel  string
		want bool
	}{
		{"out/app.bin", false},
		{"deep/out/app.bin", false},
		{"server.log", false},
		{"sub/generated/x.go", false},
		{"sub/other/x.go", true},
		{"main.go", true},
		// Negation lines are skipped, so keep.log still matches *.log.
		{"keep.log", false},
	}
	for _, tc := range cases {
		got := e.ShouldInclude(filepath.Join(root, filepath.FromSlash(tc.rel)), root)
		if got != tc.want {
			t.Errorf("ShouldInclude(%s) = %v, want %v", tc.rel, got, tc.want)
		}
	}
}

func TestLoadIgnoreFileMissing(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(nil)
	if err := e.LoadIgnoreFile(root); err != nil {
		t.Fatalf("missing .gitignore should not error, got %v", err)
	}
}

func TestLoadIgnoreFileIdempotent(t *testing.T) {
	root := t.TempDir()
	gitignore := "out/\n*.log\nsub/generated\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil)
	base := len(e.Rules())

	// Repeated loads, as the watch loop does every cycle, must not grow
	// the rule set.
	for i := 0; i < 5; i++ {
		if err := e.LoadIgnoreFile(root); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(e.Rules()); got != base+3 {
		t.Fatalf("after 5 loads got %d rules, want %d", got, base+3)
	}
}

func TestLoadIgnoreFileReplacesOtherRoot(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	if err := os.WriteFile(filepath.Join(rootA, ".gitignore"), []byte("secret/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rootB, ".gitignore"), []byte("vendor-copy/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil)
	if err := e.LoadIgnoreFile(rootA); err != nil {
		t.Fatal(err)
	}
	if e.ShouldInclude(filepath.Join(rootA, "secret", "key.pem"), rootA) {
		t.Fatal("rootA .gitignore not applied")
	}

	// Scanning a second root swaps in its rules; the first root's
	// patterns must not leak across.
	if err := e.LoadIgnoreFile(rootB); err != nil {
		t.Fatal(err)
	}
	if e.ShouldInclude(filepath.Join(rootB, "vendor-copy", "lib.js"), rootB) {
		t.Error("rootB .gitignore not applied")
	}
	if !e.ShouldInclude(filepath.Join(rootB, "secret", "key.pem"), rootB) {
		t.Error("rootA pattern leaked into rootB scan")
	}

	// A root with no .gitignore clears the file rules entirely.
	rootC := t.TempDir()
	if err := e.LoadIgnoreFile(rootC); err != nil {
		t.Fatal(err)
	}
	if !e.ShouldInclude(filepath.Join(rootC, "vendor-copy", "lib.js"), rootC) {
		t.Error("stale file rules survived a root without .gitignore")
	}
}

func TestNormalizeIgnoreLine(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"node_modules/", "**/node_modules{,/**}"},
		{"build", "**/build{,/**}"},
		{"docs/tmp", "docs/tmp{,/**}"},
		{"/rooted", "**/rooted{,/**}"},
		{"a/**/b", "a/**/b"},
		{"*.log", "**/*.log{,/**}"},
	}
	for _, tc := range cases {
		if got := normalizeIgnoreLine(tc.in); got != tc.want {
			t.Errorf("normalizeIgnoreLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIgnoreFileRulePriority(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secret/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil)
	if err := e.LoadIgnoreFile(root); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, r := range e.Rules() {
		if r.Description == "from .gitignore" {
			found = true
			if r.Priority != ignoreFilePriority {
				t.Fatalf("ignore file rule priority = %d, want %d", r.Priority, ignoreFilePriority)
			}
		}
	}
	if !found {
		t.Fatal("no rule loaded from .gitignore")
	}
}
