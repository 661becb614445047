// Package filter decides, path by path, whether a file counts toward the
// scanned set. Layered ignore rules are evaluated before include/exclude
// filters, and a path that matches nothing is included: the default rule
// set is a blocklist, not an allowlist.
package filter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// cacheSize bounds the per-path decision cache.
const cacheSize = 8192

// Engine evaluates ignore rules and file filters against root-relative
// paths. Decisions are cached per path; the cache is purged wholesale
// whenever rules change.
type Engine struct {
	logger *log.Logger

	// baseIgnore holds built-in and configured rules; fileRules holds
	// rules loaded from one repository's ignore file and is replaced,
	// never appended to, when a different root (or the same root again)
	// is loaded. ignoreRules is the composed evaluation slice.
	baseIgnore  []inventory.IgnoreRule
	fileRules   []inventory.IgnoreRule
	fileRoot    string
	ignoreRules []inventory.IgnoreRule

	includes []inventory.FileFilter
	excludes []inventory.FileFilter

	cache *lru.Cache[string, bool]
}

// NewEngine builds an engine preloaded with DefaultIgnoreRules.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	cache, _ := lru.New[string, bool](cacheSize)
	e := &Engine{
		logger: logger,
		cache:  cache,
	}
	e.baseIgnore = append(e.baseIgnore, DefaultIgnoreRules...)
	e.rebuildRules()
	return e
}

// AddIgnoreRule appends an ignore rule and invalidates the cache.
func (e *Engine) AddIgnoreRule(rule inventory.IgnoreRule) {
	e.baseIgnore = append(e.baseIgnore, rule)
	e.rebuildRules()
}

// AddFilter appends a file filter and invalidates the cache. Filters with
// an unrecognized action are dropped with a warning; config validation
// should have rejected them upstream.
func (e *Engine) AddFilter(f inventory.FileFilter) {
	switch f.Action {
	case inventory.ActionInclude:
		e.includes = append(e.includes, f)
	case inventory.ActionExclude:
		e.excludes = append(e.excludes, f)
	default:
		e.logger.Warn("dropping filter with unknown action", "filter", f.Name, "action", f.Action)
		return
	}
	e.rebuildRules()
}

// ImportConfig replaces all configured (non-default) rules with the given
// filters and ignore rules. Built-in ignore rules are retained, as are any
// rules loaded from a repository's ignore file.
func (e *Engine) ImportConfig(filters []inventory.FileFilter, rules []inventory.IgnoreRule) {
	e.baseIgnore = append([]inventory.IgnoreRule(nil), DefaultIgnoreRules...)
	e.baseIgnore = append(e.baseIgnore, rules...)
	e.includes = nil
	e.excludes = nil
	for _, f := range filters {
		switch f.Action {
		case inventory.ActionInclude:
			e.includes = append(e.includes, f)
		case inventory.ActionExclude:
			e.excludes = append(e.excludes, f)
		default:
			e.logger.Warn("dropping filter with unknown action", "filter", f.Name, "action", f.Action)
		}
	}
	e.rebuildRules()
}

// Reset restores the engine to its built-in rule set and clears the cache.
func (e *Engine) Reset() {
	e.baseIgnore = append([]inventory.IgnoreRule(nil), DefaultIgnoreRules...)
	e.fileRules = nil
	e.fileRoot = ""
	e.includes = nil
	e.excludes = nil
	e.rebuildRules()
}

// Rules returns a copy of the active ignore rules in evaluation order.
func (e *Engine) Rules() []inventory.IgnoreRule {
	return append([]inventory.IgnoreRule(nil), e.ignoreRules...)
}

// rebuildRules recomposes the evaluation slice from the base and file rule
// collections, re-sorts everything, and invalidates the cache.
func (e *Engine) rebuildRules() {
	e.ignoreRules = make([]inventory.IgnoreRule, 0, len(e.baseIgnore)+len(e.fileRules))
	e.ignoreRules = append(e.ignoreRules, e.baseIgnore...)
	e.ignoreRules = append(e.ignoreRules, e.fileRules...)
	e.sortRules()
	e.cache.Purge()
}

// sortRules orders every rule collection by descending priority. Sorting is
// stable so rules of equal priority keep insertion order.
func (e *Engine) sortRules() {
	sort.SliceStable(e.ignoreRules, func(i, j int) bool {
		return e.ignoreRules[i].Priority > e.ignoreRules[j].Priority
	})
	sort.SliceStable(e.includes, func(i, j int) bool {
		return e.includes[i].Priority > e.includes[j].Priority
	})
	sort.SliceStable(e.excludes, func(i, j int) bool {
		return e.excludes[i].Priority > e.excludes[j].Priority
	})
}

// ShouldInclude reports whether the path counts toward the scanned set.
// Ignore rules always dominate; exclude filters run next; include filters
// run last; a path matching nothing is included.
func (e *Engine) ShouldInclude(path, root string) bool {
	rel := RelPath(path, root)

	if cached, ok := e.cache.Get(rel); ok {
		return cached
	}

	decision := e.decide(rel)
	e.cache.Add(rel, decision)
	return decision
}

func (e *Engine) decide(rel string) bool {
	for _, rule := range e.ignoreRules {
		if e.match(rule.Pattern, rel) {
			return false
		}
	}
	for _, f := range e.excludes {
		if e.match(f.Pattern, rel) {
			return false
		}
	}
	for _, f := range e.includes {
		if e.match(f.Pattern, rel) {
			return true
		}
	}
	return true
}

// FilterFiles returns the subset of paths that ShouldInclude accepts.
func (e *Engine) FilterFiles(paths []string, root string) []string {
	var kept []string
	for _, p := range paths {
		if e.ShouldInclude(p, root) {
			kept = append(kept, p)
		}
	}
	return kept
}

// match evaluates a single glob pattern against a relative path. Malformed
// patterns are logged once per evaluation and treated as non-matching.
func (e *Engine) match(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, rel)
	if err != nil {
		e.logger.Warn("malformed ignore pattern", "pattern", pattern, "err", err)
		return false
	}
	return ok
}

// RelPath normalizes a path to its root-relative, forward-slash form for
// pattern matching. Paths outside the root fall back to their slash form.
func RelPath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
