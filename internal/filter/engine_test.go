package filter

import (
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

func TestDefaultIgnoreRules(t *testing.T) {
	e := NewEngine(nil)
	root := "/repo"

	ignored := []string{
		"/repo/.git/config",
		"/repo/node_modules/react/index.js",
		"/repo/packages/a/node_modules/left-pad/index.js",
		"/repo/vendor/github.com/spf13/cobra/command.go",
		"/repo/dist/bundle.js",
		"/repo/target/debug/app",
		"/repo/__pycache__/mod.cpython-311.pyc",
		"/repo/.venv/lib/python3.11/site.py",
		"/repo/src/.DS_Store",
		"/repo/package-lock.json",
	}
	for _, p := range ignored {
		if e.ShouldInclude(p, root) {
			t.Errorf("expected %s to be ignored", p)
		}
	}

	included := []string{
		"/repo/main.go",
		"/repo/src/index.ts",
		"/repo/packages/a/package.json",
		"/repo/docs/README.md",
	}
	for _, p := range included {
		if !e.ShouldInclude(p, root) {
			t.Errorf("expected %s to be included", p)
		}
	}
}

func TestIgnoreDominatesIncludeFilter(t *testing.T) {
	e := NewEngine(nil)
	// An include filter can never resurrect an ignored path.
	e.AddFilter(inventory.FileFilter{
		Name:     "all-js",
		Pattern:  "**/*.js",
		Action:   inventory.ActionInclude,
		Priority: 100,
	})

	if e.ShouldInclude("/repo/node_modules/react/index.js", "/repo") {
		t.Fatal("include filter overrode an ignore rule")
	}
	if !e.ShouldInclude("/repo/src/app.js", "/repo") {
		t.Fatal("non-ignored js file should be included")
	}
}

func TestExcludeFilter(t *testing.T) {
	e := NewEngine(nil)
	e.AddFilter(inventory.FileFilter{
		Name:     "no-generated",
		Pattern:  "**/*_gen.go",
		Action:   inventory.ActionExclude,
		Priority: 5,
	})

	if e.ShouldInclude("/repo/api/types_gen.go", "/repo") {
		t.Fatal("exclude filter did not apply")
	}
	if !e.ShouldInclude("/repo/api/types.go", "/repo") {
		t.Fatal("unrelated file excluded")
	}
}

func TestDefaultInclusionIsFailOpen(t *testing.T) {
	e := NewEngine(nil)
	// A path matching no rule and no filter is included.
	if !e.ShouldInclude("/repo/weird.xyz", "/repo") {
		t.Fatal("unmatched path should be included by default")
	}
}

func TestCacheInvalidationOnRuleChange(t *testing.T) {
	e := NewEngine(nil)
	root := "/repo"
	path := "/repo/notes/secret.txt"

	if !e.ShouldInclude(path, root) {
		t.Fatal("path unexpectedly excluded before rule added")
	}

	e.AddIgnoreRule(inventory.IgnoreRule{
		Pattern:  "notes{,/**}",
		Priority: 8,
	})

	if e.ShouldInclude(path, root) {
		t.Fatal("cached decision survived rule change")
	}
}

func TestImportConfigRetainsBuiltins(t *testing.T) {
	e := NewEngine(nil)
	e.ImportConfig(nil, []inventory.IgnoreRule{
		{Pattern: "**/*.tmp", Priority: 7},
	})

	if e.ShouldInclude("/repo/node_modules/x/y.js", "/repo") {
		t.Fatal("built-in rules lost on ImportConfig")
	}
	if e.ShouldInclude("/repo/scratch.tmp", "/repo") {
		t.Fatal("imported rule not applied")
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	e := NewEngine(nil)

	rules := e.Rules()
	for i := range rules {
		rules[i].Pattern = "**"
	}

	// Mutating the returned slice must not touch the engine's own rules.
	if !e.ShouldInclude("/repo/main.go", "/repo") {
		t.Fatal("mutation of Rules() result changed engine behavior")
	}
	if got := e.Rules()[0].Pattern; got == "**" {
		t.Fatal("Rules() exposed internal slice")
	}
}

func TestMalformedPatternDoesNotMatch(t *testing.T) {
	e := NewEngine(nil)
	e.AddIgnoreRule(inventory.IgnoreRule{
		Pattern:  "[invalid",
		Priority: 9,
	})

	// The malformed rule is treated as non-matching, not as match-all.
	if !e.ShouldInclude("/repo/main.go", "/repo") {
		t.Fatal("malformed pattern excluded an unrelated path")
	}
}

func TestFilterFiles(t *testing.T) {
	e := NewEngine(nil)
	root := "/repo"
	paths := []string{
		"/repo/main.go",
		"/repo/node_modules/a/b.js",
		"/repo/lib/util.go",
	}

	kept := e.FilterFiles(paths, root)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept paths, got %d: %v", len(kept), kept)
	}
}

func TestRelPath(t *testing.T) {
	got := RelPath(filepath.Join("/repo", "src", "a.go"), "/repo")
	if got != "src/a.go" {
		t.Fatalf("RelPath = %q, want src/a.go", got)
	}

	// Outside the root falls back to the slash form of the input.
	got = RelPath("/elsewhere/b.go", "/repo")
	if got != "/elsewhere/b.go" {
		t.Fatalf("RelPath outside root = %q", got)
	}
}

func TestRuleOrderingByPriority(t *testing.T) {
	e := NewEngine(nil)
	e.AddIgnoreRule(inventory.IgnoreRule{Pattern: "**/*.low", Priority: 1})
	e.AddIgnoreRule(inventory.IgnoreRule{Pattern: "**/*.high", Priority: 99})

	rules := e.Rules()
	if rules[0].Pattern != "**/*.high" {
		t.Fatalf("highest priority rule not first, got %q", rules[0].Pattern)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].Priority > rules[i-1].Priority {
			t.Fatalf("rules not sorted by descending priority at index %d", i)
		}
	}
}
