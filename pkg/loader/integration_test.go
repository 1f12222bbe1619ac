package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vito/piccolo/pkg/dispatch"
	"github.com/vito/piccolo/pkg/loader"
	"github.com/vito/piccolo/pkg/objfile"
	"github.com/vito/piccolo/pkg/surface"
	"github.com/vito/piccolo/pkg/symtab"
)

// TestCrossModuleRuleSurvivesDeclareSerializeReloadObserve exercises the
// full pipeline of §9's "Cross-module rule attachment" scenario: Nat
// declares double with no rule of its own; Vec, a separate module that
// merely requires Nat, adds a rule to Nat.double; both are compiled to
// object files, dropped from memory, and reloaded together into a
// fresh universe; a third module observes the rule firing in an eval.
func TestCrossModuleRuleSurvivesDeclareSerializeReloadObserve(t *testing.T) {
	dir := t.TempDir()

	universeA := symtab.NewUniverse()
	nat := symtab.NewModule("Nat")
	universeA.AddModule(nat)
	natSrc := `
static Nat : Type.
static zero : Nat.
static succ : Nat -> Nat.
def double : Nat -> Nat.
`
	dirsA, err := surface.Parse(natSrc, "Nat")
	require.NoError(t, err)
	require.NoError(t, dispatch.New(universeA, nat, nil).Run(dirsA))

	natData, err := objfile.Encode(nat)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, objfile.Filename("Nat")), natData, 0o644))

	universeB := symtab.NewUniverse()
	universeB.AddModule(nat) // Vec's rule directive resolves Nat.double against the in-memory module it was built with
	vec := symtab.NewModule("Vec")
	vec.Requires = []string{"Nat"}
	universeB.AddModule(vec)
	vecSrc := `rule Nat.double Nat.zero -> Nat.zero.`
	dirsB, err := surface.Parse(vecSrc, "Vec")
	require.NoError(t, err)
	require.NoError(t, dispatch.New(universeB, vec, nil).Run(dirsB))

	vecData, err := objfile.Encode(vec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, objfile.Filename("Vec")), vecData, 0o644))

	universeC := symtab.NewUniverse()
	manifestPath := filepath.Join(dir, loader.ManifestFile)
	manifest := &loader.Manifest{Module: loader.ModuleConfig{Name: "Client", Requires: []string{"Vec"}}}
	require.NoError(t, loader.LoadDependencies(context.Background(), manifestPath, manifest, universeC))

	client := symtab.NewModule("Client")
	client.Requires = []string{"Vec"}
	universeC.AddModule(client)

	clientSrc := `
assert Nat.double Nat.zero == Nat.zero.
eval Nat.double Nat.zero snf.
`
	dirsC, err := surface.Parse(clientSrc, "Client")
	require.NoError(t, err)
	require.NoError(t, dispatch.New(universeC, client, nil).Run(dirsC))
}
