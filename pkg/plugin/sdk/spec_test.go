package sdk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpecFile(t *testing.T, dir, name, xmlBody string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(xmlBody), 0644))
	return path
}

const validSpecXML = `<plugin name="alpha" version="1.2.3">
  <description>Alpha plugin</description>
  <category>core</category>
  <dependencyList>
  </dependencyList>
</plugin>`

func TestReadValidSpecAdvancesToRead(t *testing.T) {
	dir := t.TempDir()
	path := writeSpecFile(t, dir, "alpha.xml", validSpecXML)

	s := NewPluginSpec()
	require.NoError(t, s.Read(path))

	assert.Equal(t, StateRead, s.State())
	assert.Equal(t, "alpha", s.Name())
	assert.Equal(t, "1.2.3", s.Version())
	assert.Equal(t, "core", s.Category())
	assert.True(t, s.Enabled())
	assert.False(t, s.HasError())
}

func TestReadMissingFileStaysInvalid(t *testing.T) {
	s := NewPluginSpec()
	err := s.Read(filepath.Join(t.TempDir(), "missing.xml"))

	require.Error(t, err)
	assert.Equal(t, StateInvalid, s.State())
	assert.True(t, s.HasError())
}

func TestReadMalformedXMLStaysInvalidWithLine(t *testing.T) {
	dir := t.TempDir()
	path := writeSpecFile(t, dir, "bad.xml", `<plugin name="x"><description>unterminated`)

	s := NewPluginSpec()
	err := s.Read(path)

	require.Error(t, err)
	assert.Equal(t, StateInvalid, s.State())
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Line)
}

func TestReadNormalizesInvalidVersionToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeSpecFile(t, dir, "beta.xml", `<plugin name="beta" version="not-a-version"></plugin>`)

	s := NewPluginSpec()
	require.NoError(t, s.Read(path))
	assert.Equal(t, "", s.Version())
}

func TestRoundTripStateAfterLoadAndUnload(t *testing.T) {
	dir := t.TempDir()
	path := writeSpecFile(t, dir, "alpha.xml", validSpecXML)

	s := NewPluginSpec()
	require.NoError(t, s.Read(path))
	require.NoError(t, s.resolveDependencies(nil))
	assert.Equal(t, StateResolved, s.State())

	loader := &fakeLoader{}
	require.NoError(t, s.loadPlugin(loader))
	assert.Equal(t, StateLoaded, s.State())
	require.NoError(t, s.initializePlugin())
	assert.Equal(t, StateInitialized, s.State())

	_, err := s.unloadPlugin(loader)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, s.State())
	assert.Nil(t, s.Plugin())
}

func TestResolveDependenciesIsIdempotent(t *testing.T) {
	a := specWithName("a")
	b := specWithName("b")
	b.dependencies = []PluginDependency{{Name: "a"}}
	all := []*PluginSpec{a, b}

	require.NoError(t, a.resolveDependencies(all))
	require.NoError(t, b.resolveDependencies(all))
	firstEdges := append([]*PluginSpec{}, b.dependencySpecs...)

	require.NoError(t, b.resolveDependencies(all))
	assert.Equal(t, firstEdges, b.dependencySpecs)
	assert.Len(t, a.providesSpecs, 1)
}

func TestResolveDependenciesReportsEveryMissingDependency(t *testing.T) {
	s := specWithName("s")
	s.dependencies = []PluginDependency{{Name: "missing1"}, {Name: "missing2"}}

	err := s.resolveDependencies([]*PluginSpec{s})
	require.Error(t, err)
	assert.Contains(t, s.ErrorString(), "missing1")
	assert.Contains(t, s.ErrorString(), "missing2")
	assert.NotEqual(t, StateResolved, s.State())
}

func TestEdgeSymmetryAfterResolve(t *testing.T) {
	a := specWithName("a")
	b := specWithName("b")
	b.dependencies = []PluginDependency{{Name: "a"}}
	all := []*PluginSpec{a, b}

	require.NoError(t, a.resolveDependencies(all))
	require.NoError(t, b.resolveDependencies(all))

	assert.Contains(t, b.dependencySpecs, a)
	assert.Contains(t, a.providesSpecs, b)
}

func specWithName(name string) *PluginSpec {
	s := NewPluginSpec()
	s.name = name
	s.enabled = true
	s.state = StateRead
	return s
}

type fakeLoader struct {
	loadErr error
}

func (f *fakeLoader) Load(path string) (Plugin, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return &fakePlugin{}, nil
}

func (f *fakeLoader) Unload(path string) (bool, error) {
	return false, nil
}

type fakePlugin struct {
	initErr error
}

func (p *fakePlugin) Initialize() error        { return p.initErr }
func (p *fakePlugin) Shutdown()                {}
func (p *fakePlugin) IsShutdownRequested() bool { return false }
