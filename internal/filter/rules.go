package filter

import "github.com/blackwell-systems/repoatlas/internal/inventory"

// Built-in ignore rule priorities, from version-control metadata (highest)
// down to lock files and transient artifacts (lowest).
const (
	priorityVCS      = 10
	priorityDeps     = 9
	priorityBuild    = 8
	priorityCaches   = 7
	priorityEditor   = 6
	priorityArtifact = 5
)

// DefaultIgnoreRules is the built-in rule set applied by every engine.
// Patterns, descriptions, and priorities are stable: downstream consumers
// depend on the default scanned set being reproducible across versions.
var DefaultIgnoreRules = []inventory.IgnoreRule{
	// Version control metadata.
	{Pattern: "**/.git/**", Description: "Git metadata", Priority: priorityVCS},
	{Pattern: "**/.svn/**", Description: "Subversion metadata", Priority: priorityVCS},
	{Pattern: "**/.hg/**", Description: "Mercurial metadata", Priority: priorityVCS},
	{Pattern: "**/CVS/**", Description: "CVS metadata", Priority: priorityVCS},

	// Dependency install directories.
	{Pattern: "**/node_modules/**", Description: "Node.js installed packages", Priority: priorityDeps},
	{Pattern: "**/bower_components/**", Description: "Bower installed packages", Priority: priorityDeps},
	{Pattern: "**/jspm_packages/**", Description: "JSPM installed packages", Priority: priorityDeps},
	{Pattern: "**/.pnpm-store/**", Description: "pnpm content-addressable store", Priority: priorityDeps},
	{Pattern: "**/vendor/**", Description: "Vendored dependencies", Priority: priorityDeps},

	// Build output.
	{Pattern: "**/dist/**", Description: "Distribution build output", Priority: priorityBuild},
	{Pattern: "**/build/**", Description: "Build output", Priority: priorityBuild},
	{Pattern: "**/out/**", Description: "Compiler output", Priority: priorityBuild},
	{Pattern: "**/target/**", Description: "Rust/JVM build output", Priority: priorityBuild},
	{Pattern: "**/bin/**", Description: "Compiled binaries", Priority: priorityBuild},
	{Pattern: "**/obj/**", Description: ".NET intermediate output", Priority: priorityBuild},
	{Pattern: "**/.next/**", Description: "Next.js build output", Priority: priorityBuild},
	{Pattern: "**/.nuxt/**", Description: "Nuxt build output", Priority: priorityBuild},
	{Pattern: "**/.output/**", Description: "Nitro build output", Priority: priorityBuild},

	// Language caches and virtual environments.
	{Pattern: "**/__pycache__/**", Description: "Python bytecode cache", Priority: priorityCaches},
	{Pattern: "**/*.pyc", Description: "Python compiled bytecode", Priority: priorityCaches},
	{Pattern: "**/.venv/**", Description: "Python virtual environment", Priority: priorityCaches},
	{Pattern: "**/venv/**", Description: "Python virtual environment", Priority: priorityCaches},
	{Pattern: "**/.tox/**", Description: "tox environments", Priority: priorityCaches},
	{Pattern: "**/.mypy_cache/**", Description: "mypy cache", Priority: priorityCaches},
	{Pattern: "**/.pytest_cache/**", Description: "pytest cache", Priority: priorityCaches},
	{Pattern: "**/.ruff_cache/**", Description: "Ruff cache", Priority: priorityCaches},
	{Pattern: "**/*.egg-info/**", Description: "Python egg metadata", Priority: priorityCaches},
	{Pattern: "**/.gradle/**", Description: "Gradle cache", Priority: priorityCaches},
	{Pattern: "**/.cache/**", Description: "Generic tool cache", Priority: priorityCaches},
	{Pattern: "**/.parcel-cache/**", Description: "Parcel cache", Priority: priorityCaches},
	{Pattern: "**/.turbo/**", Description: "Turborepo cache", Priority: priorityCaches},
	{Pattern: "**/coverage/**", Description: "Coverage reports", Priority: priorityCaches},
	{Pattern: "**/.nyc_output/**", Description: "nyc coverage output", Priority: priorityCaches},
	{Pattern: "**/.terraform/**", Description: "Terraform provider cache", Priority: priorityCaches},

	// Editor and OS artifacts.
	{Pattern: "**/.idea/**", Description: "JetBrains IDE settings", Priority: priorityEditor},
	{Pattern: "**/.vscode/**", Description: "VS Code settings", Priority: priorityEditor},
	{Pattern: "**/.vs/**", Description: "Visual Studio settings", Priority: priorityEditor},
	{Pattern: "**/*.swp", Description: "Vim swap file", Priority: priorityEditor},
	{Pattern: "**/*~", Description: "Editor backup file", Priority: priorityEditor},
	{Pattern: "**/.DS_Store", Description: "macOS Finder metadata", Priority: priorityEditor},
	{Pattern: "**/Thumbs.db", Description: "Windows thumbnail cache", Priority: priorityEditor},
	{Pattern: "**/desktop.ini", Description: "Windows folder settings", Priority: priorityEditor},

	// Lock files and transient artifacts.
	{Pattern: "**/package-lock.json", Description: "npm lock file", Priority: priorityArtifact},
	{Pattern: "**/yarn.lock", Description: "Yarn lock file", Priority: priorityArtifact},
	{Pattern: "**/pnpm-lock.yaml", Description: "pnpm lock file", Priority: priorityArtifact},
	{Pattern: "**/Cargo.lock", Description: "Cargo lock file", Priority: priorityArtifact},
	{Pattern: "**/poetry.lock", Description: "Poetry lock file", Priority: priorityArtifact},
	{Pattern: "**/Pipfile.lock", Description: "Pipenv lock file", Priority: priorityArtifact},
	{Pattern: "**/composer.lock", Description: "Composer lock file", Priority: priorityArtifact},
	{Pattern: "**/Gemfile.lock", Description: "Bundler lock file", Priority: priorityArtifact},
	{Pattern: "**/*.log", Description: "Log file", Priority: priorityArtifact},
	{Pattern: "**/tmp/**", Description: "Temporary files", Priority: priorityArtifact},
}
