package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vito/piccolo/pkg/dispatch"
	"github.com/vito/piccolo/pkg/surface"
	"github.com/vito/piccolo/pkg/symtab"
)

func replCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read directives from stdin, one at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), cfg)
		},
	}
}

// runREPL is a thin textual analogue of the teacher's bubbletea REPL: a
// line-buffered loop that accumulates input until it sees a directive's
// terminating '.', parses that chunk, and dispatches it against a
// single shared module named "repl".
func runREPL(ctx context.Context, cfg *config) error {
	logger := newLogger(cfg.Debug, ctx)
	out := stdoutFrom(ctx)

	universe := symtab.NewUniverse()
	module := symtab.NewModule("repl")
	universe.AddModule(module)
	d := dispatch.New(universe, module, logger)

	in := bufio.NewScanner(os.Stdin)
	var pending strings.Builder
	fmt.Fprint(out, "piccolo> ")
	for in.Scan() {
		line := in.Text()
		pending.WriteString(line)
		pending.WriteString("\n")
		if !strings.HasSuffix(strings.TrimSpace(line), ".") {
			continue
		}

		chunk := pending.String()
		pending.Reset()

		dirs, err := surface.Parse(chunk, module.Name)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			fmt.Fprint(out, "piccolo> ")
			continue
		}
		applyDefaultBudget(dirs, cfg.StepBudget)
		if err := d.Run(dirs); err != nil {
			fmt.Fprintln(out, err.Error())
		}
		fmt.Fprint(out, "piccolo> ")
	}
	fmt.Fprintln(out)
	return in.Err()
}
