package sdk

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// PluginDependency is a declared dependency of one plugin on another by
// name. Version is informational only — resolveDependencies never
// enforces it; the original source this spec was distilled from stores
// the field but never checks it. Use CheckDependencyVersions if explicit
// version enforcement is wanted.
type PluginDependency struct {
	Name    string
	Version string // empty means "any version"
}

// String returns a human-readable "name@version" form, or bare name if
// Version is empty.
func (d PluginDependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return fmt.Sprintf("%s@%s", d.Name, d.Version)
}

// UnresolvedDependencyError reports that a spec's declared dependency
// could not be matched against the rest of the registry by name.
// resolveDependencies continues past this error so every missing
// dependency in a spec is reported, not just the first.
type UnresolvedDependencyError struct {
	Plugin     string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("could not resolve dependency on %s", e.Dependency)
}

// DependencyVersionMismatch describes one declared dependency whose
// constraint the resolved plugin's actual version fails. Returned by
// CheckDependencyVersions, which is never called automatically.
type DependencyVersionMismatch struct {
	Plugin          string
	Dependency      string
	RequiredVersion string
	ActualVersion   string
}

func (m DependencyVersionMismatch) String() string {
	return fmt.Sprintf("plugin %q requires %s@%s but found version %s",
		m.Plugin, m.Dependency, m.RequiredVersion, m.ActualVersion)
}

// CheckDependencyVersions is an opt-in diagnostic: for every resolved
// dependency edge on spec whose declared Version is non-empty and parses
// as a semver constraint, verify the dependency's actual Version
// satisfies it. Declared versions that are not valid semver constraints
// are skipped rather than treated as failures, since this spec's data
// model imposes no structure on Version strings at declaration time.
func CheckDependencyVersions(spec *PluginSpec) []DependencyVersionMismatch {
	var mismatches []DependencyVersionMismatch

	for i, dep := range spec.dependencies {
		if dep.Version == "" {
			continue
		}
		constraint, err := semver.NewConstraint(dep.Version)
		if err != nil {
			continue
		}

		target := spec.dependencySpecs[i]
		if target == nil {
			continue
		}

		actual, err := semver.NewVersion(target.version)
		if err != nil {
			continue
		}

		if !constraint.Check(actual) {
			mismatches = append(mismatches, DependencyVersionMismatch{
				Plugin:          spec.name,
				Dependency:      dep.Name,
				RequiredVersion: dep.Version,
				ActualVersion:   target.version,
			})
		}
	}

	return mismatches
}
