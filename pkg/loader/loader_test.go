package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/piccolo/pkg/loader"
	"github.com/vito/piccolo/pkg/objfile"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

func writeModule(t *testing.T, dir string, m *symtab.Module) {
	t.Helper()
	data, err := objfile.Encode(m)
	require.NoError(t, err)
	path := filepath.Join(dir, objfile.Filename(m.Name))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func natModule() *symtab.Module {
	m := symtab.NewModule("Nat")
	_ = m.DeclareStatic("Nat", term.TypeSort{}, nil)
	_ = m.DeclareStatic("zero", term.Sym{Module: "Nat", Name: "Nat"}, nil)
	return m
}

func TestFindManifestWalksUpToGitBoundary(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, loader.ManifestFile),
		[]byte("[module]\nname = \"App\"\n"), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, m, err := loader.FindManifest(sub)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, filepath.Join(root, loader.ManifestFile), path)
	assert.Equal(t, "App", m.Module.Name)
}

func TestFindManifestReturnsNilWhenAbsent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	path, m, err := loader.FindManifest(root)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Nil(t, m)
}

func TestLoadDependenciesLoadsTransitivelyAndReplaysCrossModuleRules(t *testing.T) {
	dir := t.TempDir()

	// Nat.double is definable so a rule declared against it elsewhere has
	// somewhere to land once replayed.
	nat := natModule()
	_ = nat.DeclareDefinable("double", term.Prod{
		Domain:   term.Sym{Module: "Nat", Name: "Nat"},
		Codomain: term.Sym{Module: "Nat", Name: "Nat"},
	}, nil)
	writeModule(t, dir, nat)

	vec := symtab.NewModule("Vec")
	vec.Requires = []string{"Nat"}
	vec.SetCrossModuleRules([]*symtab.Rule{{
		Head:     symtab.Ref{Module: "Nat", Name: "double"},
		Arity:    1,
		LHSArgs:  []term.Term{term.PatHole{Index: 0}},
		RHS:      term.PatHole{Index: 0},
		Declarer: "Vec",
	}})
	writeModule(t, dir, vec)

	manifestPath := filepath.Join(dir, loader.ManifestFile)
	manifest := &loader.Manifest{Module: loader.ModuleConfig{Name: "Client", Requires: []string{"Vec"}}}

	universe := symtab.NewUniverse()
	require.NoError(t, loader.LoadDependencies(context.Background(), manifestPath, manifest, universe))

	// Nat was never named in the manifest directly — only reached
	// transitively through Vec.Requires.
	_, ok := universe.Module("Nat")
	require.True(t, ok)

	sym, ok := universe.Find("Nat", "double")
	require.True(t, ok)
	require.Len(t, sym.Rules, 1)
	assert.Equal(t, "Vec", sym.Rules[0].Declarer)
}

func TestLoadDependenciesErrorsOnMissingObjectFile(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, loader.ManifestFile)
	manifest := &loader.Manifest{Module: loader.ModuleConfig{Name: "Client", Requires: []string{"Missing"}}}

	universe := symtab.NewUniverse()
	err := loader.LoadDependencies(context.Background(), manifestPath, manifest, universe)
	assert.Error(t, err)
}
