package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// Registry holds the ordered set of detectors. Registration order is part
// of the contract: confidence ties resolve to the earliest-registered
// detector.
type Registry struct {
	logger    *log.Logger
	detectors []Detector
}

// NewRegistry builds a registry with the default detector set. TypeScript
// registers ahead of JavaScript so shared manifests resolve through
// confidence bonuses rather than ordering accidents.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{logger: logger}
	r.Register(&goDetector{})
	r.Register(&typeScriptDetector{})
	r.Register(&javaScriptDetector{})
	r.Register(&pythonDetector{})
	r.Register(&rustDetector{})
	r.Register(&javaDetector{})
	r.Register(&csharpDetector{})
	r.Register(&phpDetector{})
	r.Register(&rubyDetector{})
	return r
}

// Register appends a detector. Intended for startup-time extension only;
// the registry is not safe for concurrent mutation.
func (r *Registry) Register(d Detector) {
	r.detectors = append(r.detectors, d)
}

// Detectors returns the registered detectors in registration order.
func (r *Registry) Detectors() []Detector {
	return r.detectors
}

// DetectProjectType classifies a directory. When several detectors match,
// the highest confidence score wins; equal scores keep registration order.
// Returns TypeUnknown when nothing matches.
func (r *Registry) DetectProjectType(path string) inventory.ProjectType {
	best := inventory.TypeUnknown
	bestScore := -1
	for _, d := range r.detectors {
		if !d.Detect(path) {
			continue
		}
		score := r.Confidence(d, path)
		if score > bestScore {
			best = d.Type()
			bestScore = score
		}
	}
	return best
}

// IsModuleRoot reports whether any detector claims the directory.
func (r *Registry) IsModuleRoot(path string) bool {
	return r.DetectProjectType(path) != inventory.TypeUnknown
}

// AnalyzeModule runs the deep analysis step for the given type. When pt is
// empty the directory is classified first. A classification error is
// returned when the type is unknown or has no registered detector.
func (r *Registry) AnalyzeModule(path string, pt inventory.ProjectType) (*inventory.ModuleInfo, error) {
	if pt == "" {
		pt = r.DetectProjectType(path)
	}
	if pt == inventory.TypeUnknown {
		return nil, inventory.ClassificationError(path, fmt.Errorf("no detector matched"))
	}
	for _, d := range r.detectors {
		if d.Type() == pt {
			return d.Analyze(path)
		}
	}
	return nil, inventory.ClassificationError(path, fmt.Errorf("no detector registered for type %q", pt))
}

// FindModules walks the tree top-down looking for module roots. Hidden
// directories are skipped, and recursion stops at every discovered root:
// module discovery is greedy and outermost-wins, so a module never yields
// nested modules in the same pass.
func (r *Registry) FindModules(root string, maxDepth int) ([]string, error) {
	var found []string
	if err := r.findModules(root, 0, maxDepth, &found); err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func (r *Registry) findModules(dir string, depth, maxDepth int, found *[]string) error {
	if r.IsModuleRoot(dir) {
		*found = append(*found, dir)
		return nil
	}
	if depth >= maxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal.
		r.logger.Debug("skipping unreadable directory", "dir", dir, "err", err)
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := r.findModules(filepath.Join(dir, entry.Name()), depth+1, maxDepth, found); err != nil {
			return err
		}
	}
	return nil
}
