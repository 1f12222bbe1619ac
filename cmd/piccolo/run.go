package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/vito/piccolo/pkg/dispatch"
	"github.com/vito/piccolo/pkg/loader"
	"github.com/vito/piccolo/pkg/objfile"
	"github.com/vito/piccolo/pkg/surface"
	"github.com/vito/piccolo/pkg/symtab"
)

// sourceExt is the suffix piccolo looks for when a run target is a
// directory: every *.pi file under it is parsed, in sorted order, as
// one module's worth of directives.
const sourceExt = ".pi"

func runCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file|directory>",
		Short: "Check and dispatch a module's directives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd.Context(), cfg, args[0])
		},
	}
}

func runPath(ctx context.Context, cfg *config, path string) error {
	logger := newLogger(cfg.Debug, ctx)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("accessing %s: %w", path, err)
	}

	var dir string
	var files []string
	if info.IsDir() {
		dir = path
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), sourceExt) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(files)
	} else {
		dir = filepath.Dir(path)
		files = []string{path}
	}

	manifestPath, manifest, err := loader.FindManifest(dir)
	if err != nil {
		return fmt.Errorf("finding %s: %w", loader.ManifestFile, err)
	}

	moduleName := strings.TrimSuffix(filepath.Base(path), sourceExt)
	if manifest != nil {
		moduleName = manifest.Module.Name
	}

	universe := symtab.NewUniverse()
	if manifest != nil {
		if err := loader.LoadDependencies(ctx, manifestPath, manifest, universe); err != nil {
			return err
		}
	}

	module := symtab.NewModule(moduleName)
	if manifest != nil {
		module.Requires = manifest.Module.Requires
	}
	universe.AddModule(module)

	var dirs []surface.Directive
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		fileDirs, err := surface.Parse(string(src), moduleName)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		dirs = append(dirs, fileDirs...)
	}
	applyDefaultBudget(dirs, cfg.StepBudget)

	d := dispatch.New(universe, module, logger)
	if err := d.Run(dirs); err != nil {
		return err
	}

	if cfg.Debug {
		fmt.Fprintln(stderrFrom(ctx), pretty.Sprint(module))
	}

	return writeObjectFile(dir, module)
}

// writeObjectFile persists module next to its sources, the way a
// compiler drops its output artifact alongside the input it built from.
// A module with nothing else depending on it is still exercised this
// way: "piccolo run" always produces something pkg/loader can later
// consume.
func writeObjectFile(dir string, module *symtab.Module) error {
	data, err := objfile.Encode(module)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", module.Name, err)
	}
	out := filepath.Join(dir, objfile.Filename(module.Name))
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
