package detect

import (
	"testing"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

const samplePyProject = `[project]
name = "atlasnet"
version = "0.4.0"
description = "Network inventory helpers"
requires-python = ">=3.10"
keywords = ["network", "inventory"]
authors = [{name = "Dana Kim", email = "dana@example.com"}]
dependencies = [
    "requests>=2.31",
    "click==8.1.7",
]
`

func TestPythonAnalyzePyProject(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"pyproject.toml": samplePyProject,
		"main.py":        "",
	})

	d := &pythonDetector{}
	mod, err := d.Analyze(dir)
	if err != nil {
		t.Fatal(err)
	}

	if mod.Name != "atlasnet" {
		t.Errorf("Name = %q", mod.Name)
	}
	if mod.Metadata.Description != "Network inventory helpers" {
		t.Errorf("Description = %q", mod.Metadata.Description)
	}
	if mod.Metadata.Author != "Dana Kim" {
		t.Errorf("Author = %q", mod.Metadata.Author)
	}
	if mod.Metadata.Engines["python"] != ">=3.10" {
		t.Errorf("python engine = %q", mod.Metadata.Engines["python"])
	}
	if len(mod.Dependencies) != 2 {
		t.Fatalf("Dependencies = %v", mod.Dependencies)
	}
	if mod.Dependencies[0].Name != "requests" || mod.Dependencies[0].Version != ">=2.31" {
		t.Errorf("first dependency = %+v", mod.Dependencies[0])
	}
	if len(mod.EntryPoints) != 1 || mod.EntryPoints[0] != "main.py" {
		t.Errorf("EntryPoints = %v", mod.EntryPoints)
	}
}

func TestPythonAnalyzeSetupPyFallback(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"setup.py": `from setuptools import setup
setup(
    name="legacy-tool",
    description="An older package",
    author="Old Maintainer",
)`,
		"requirements.txt": "flask==3.0.0\n# a comment\n-r other.txt\ngit+https://github.com/x/y\n",
	})

	d := &pythonDetector{}
	mod, err := d.Analyze(dir)
	if err != nil {
		t.Fatal(err)
	}

	if mod.Name != "legacy-tool" {
		t.Errorf("Name = %q", mod.Name)
	}
	if mod.Metadata.Description != "An older package" {
		t.Errorf("Description = %q", mod.Metadata.Description)
	}
	if len(mod.Dependencies) != 1 || mod.Dependencies[0].Name != "flask" {
		t.Errorf("Dependencies = %v, comments/options/VCS refs should be skipped", mod.Dependencies)
	}
}

func TestParseRequirementLine(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantVer  string
		ok       bool
	}{
		{"requests>=2.31", "requests", ">=2.31", true},
		{"click==8.1.7", "click", "==8.1.7", true},
		{"uvicorn[standard]>=0.23", "uvicorn", ">=0.23", true},
		{"tomli; python_version < '3.11'", "tomli", "", true},
		{"bare-name", "bare-name", "", true},
		{"# comment only", "", "", false},
		{"", "", "", false},
		{"-e .", "", "", false},
		{"git+https://github.com/x/y", "", "", false},
	}
	for _, tc := range cases {
		dep, ok := parseRequirementLine(tc.in)
		if ok != tc.ok {
			t.Errorf("parseRequirementLine(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if dep.Name != tc.wantName || dep.Version != tc.wantVer {
			t.Errorf("parseRequirementLine(%q) = %q %q, want %q %q",
				tc.in, dep.Name, dep.Version, tc.wantName, tc.wantVer)
		}
		if dep.Kind != inventory.KindProduction {
			t.Errorf("parseRequirementLine(%q) kind = %s", tc.in, dep.Kind)
		}
	}
}
