package filter

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// ignoreFilePriority is the fixed priority assigned to every rule loaded
// from a repository's ignore file.
const ignoreFilePriority = 6

// LoadIgnoreFile reads the root-level .gitignore and installs each pattern
// line as an ignore rule. The rules from any previously loaded ignore file
// are replaced, so loading is idempotent per root and a rescan never
// inherits another root's patterns. A missing file clears them. Negation
// lines (leading !) are skipped: the engine has no un-ignore concept.
func (e *Engine) LoadIgnoreFile(root string) error {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			e.setFileRules(root, nil)
			return nil
		}
		return err
	}
	defer f.Close()

	var rules []inventory.IgnoreRule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		rules = append(rules, inventory.IgnoreRule{
			Pattern:     normalizeIgnoreLine(line),
			Description: "from .gitignore",
			Priority:    ignoreFilePriority,
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	e.setFileRules(root, rules)
	return nil
}

// setFileRules swaps in the rule set loaded from one root's ignore file.
// The rebuild is skipped when nothing changed, keeping repeated scans of
// an unchanged root from discarding the decision cache every cycle.
func (e *Engine) setFileRules(root string, rules []inventory.IgnoreRule) {
	if root == e.fileRoot && equalRules(e.fileRules, rules) {
		return
	}
	e.fileRoot = root
	e.fileRules = rules
	e.rebuildRules()
}

func equalRules(a, b []inventory.IgnoreRule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// normalizeIgnoreLine converts a gitignore-style line to the glob form the
// engine matches with. Directory patterns gain a trailing ** so their
// contents match, and bare names are anchored at any depth.
func normalizeIgnoreLine(line string) string {
	p := strings.TrimSuffix(line, "/")
	p = strings.TrimPrefix(p, "/")

	switch {
	case strings.HasSuffix(p, "/**") || strings.Contains(p, "**"):
		// Already in recursive glob form; use as-is.
	case strings.Contains(p, "/"):
		// Path-anchored directory or file pattern: match the entry and
		// anything beneath it.
		p = p + "{,/**}"
	default:
		// Bare name: match at any depth, including contents.
		p = "**/" + p + "{,/**}"
	}
	return p
}
