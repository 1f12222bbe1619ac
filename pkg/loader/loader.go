package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vito/piccolo/pkg/objfile"
	"github.com/vito/piccolo/pkg/symtab"
)

// LoadDependencies reads every module manifest.Module.Requires names,
// decodes their object files, and attaches them (transitively) to
// universe with cross-module rules replayed. This is the guarantee §6
// describes: "any symbol referenced by a loaded module has already
// been re-materialised" — a dependency's own dependencies are loaded
// before the dependency itself is attached to universe.
func LoadDependencies(ctx context.Context, manifestPath string, manifest *Manifest, universe *symtab.Universe) error {
	dir := filepath.Dir(manifestPath)
	if err := loadAll(ctx, dir, manifest, universe, manifest.Module.Requires); err != nil {
		return err
	}
	slog.Debug("loader: dependencies ready", "module", manifest.Module.Name, "count", len(manifest.Module.Requires))
	return nil
}

// loadAll loads names and everything they transitively require, batching
// disk reads for each level concurrently with golang.org/x/sync/errgroup
// (I/O is safely parallel) while keeping every mutation of universe —
// AddModule, ReplayCrossModuleRules — strictly sequential (§5: the
// symbol table itself is not safe for concurrent mutation).
func loadAll(ctx context.Context, dir string, manifest *Manifest, universe *symtab.Universe, names []string) error {
	var toLoad []string
	for _, name := range names {
		if _, ok := universe.Module(name); !ok {
			toLoad = append(toLoad, name)
		}
	}
	if len(toLoad) == 0 {
		return nil
	}

	raw := make([][]byte, len(toLoad))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range toLoad {
		i, name := i, name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			path := dependencyPath(dir, manifest, name, objfile.Filename(name))
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("loader: reading dependency %q: %w", name, err)
			}
			raw[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	decoded := make([]*symtab.Module, 0, len(toLoad))
	for i, name := range toLoad {
		if _, ok := universe.Module(name); ok {
			continue // materialised by an earlier branch of this same batch's transitive load
		}
		if err := universe.BeginLoad(name); err != nil {
			return err
		}
		mod, err := objfile.Decode(raw[i])
		if err != nil {
			universe.EndLoad(name)
			return fmt.Errorf("loader: decoding dependency %q: %w", name, err)
		}
		if err := loadAll(ctx, dir, manifest, universe, mod.Requires); err != nil {
			universe.EndLoad(name)
			return err
		}
		universe.AddModule(mod)
		universe.EndLoad(name)
		decoded = append(decoded, mod)
		slog.Debug("loader: attached module", "module", name, "symbols", len(mod.Names()))
	}

	for _, mod := range decoded {
		if err := universe.ReplayCrossModuleRules(mod); err != nil {
			return fmt.Errorf("loader: replaying cross-module rules for %q: %w", mod.Name, err)
		}
	}
	return nil
}
