package detect

import "github.com/blackwell-systems/repoatlas/internal/inventory"

// Confidence scoring constants. Scores only disambiguate when multiple
// detectors match the same directory; an unmatched detector never scores.
const (
	baseScore       = 50
	patternScore    = 10
	patternScoreCap = 30
	maxScore        = 100

	bonusGoMod     = 25
	bonusTSConfig  = 20
	bonusPyProject = 15
)

// Confidence computes the heuristic score for a matching detector: base 50,
// +10 per declared pattern present (capped), plus an ecosystem bonus for
// the strongest manifest of that ecosystem, capped at 100.
func (r *Registry) Confidence(d Detector, path string) int {
	score := baseScore

	patterns := 0
	for _, pat := range d.Patterns() {
		if patternPresent(path, pat) {
			patterns += patternScore
		}
	}
	if patterns > patternScoreCap {
		patterns = patternScoreCap
	}
	score += patterns

	switch d.Type() {
	case inventory.TypeGo:
		if fileExists(path, "go.mod") {
			score += bonusGoMod
		}
	case inventory.TypeTypeScript:
		if fileExists(path, "tsconfig.json") {
			score += bonusTSConfig
		}
	case inventory.TypePython:
		if fileExists(path, "pyproject.toml") {
			score += bonusPyProject
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}
