package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluginDependencyStringOmitsEmptyVersion(t *testing.T) {
	assert.Equal(t, "base", PluginDependency{Name: "base"}.String())
	assert.Equal(t, "base@1.2.3", PluginDependency{Name: "base", Version: "1.2.3"}.String())
}

func TestCheckDependencyVersionsSkipsEmptyAndUnparseableConstraints(t *testing.T) {
	target := specWithName("base")
	target.version = "1.0.0"

	s := specWithName("addon")
	s.dependencies = []PluginDependency{
		{Name: "base", Version: ""},
		{Name: "base", Version: "not-a-constraint"},
	}
	s.dependencySpecs = []*PluginSpec{target, target}

	assert.Empty(t, CheckDependencyVersions(s))
}

func TestCheckDependencyVersionsReportsMismatch(t *testing.T) {
	target := specWithName("base")
	target.version = "1.0.0"

	s := specWithName("addon")
	s.dependencies = []PluginDependency{{Name: "base", Version: ">=2.0.0"}}
	s.dependencySpecs = []*PluginSpec{target}

	mismatches := CheckDependencyVersions(s)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, "base", mismatches[0].Dependency)
	assert.Equal(t, "1.0.0", mismatches[0].ActualVersion)
}

func TestCheckDependencyVersionsPassesWhenConstraintSatisfied(t *testing.T) {
	target := specWithName("base")
	target.version = "2.3.0"

	s := specWithName("addon")
	s.dependencies = []PluginDependency{{Name: "base", Version: ">=2.0.0"}}
	s.dependencySpecs = []*PluginSpec{target}

	assert.Empty(t, CheckDependencyVersions(s))
}
