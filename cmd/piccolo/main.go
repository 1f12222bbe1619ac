package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vito/piccolo/pkg/surface"
)

// config holds the flags shared by every subcommand, mirroring
// cmd/dang/main.go's single Config struct threaded into run/runREPL.
type config struct {
	Debug      bool
	StepBudget int
}

func main() {
	var cfg config

	rootCmd := &cobra.Command{
		Use:   "piccolo",
		Short: "A λΠ-modulo type checker with user-declared rewrite rules",
		Long: `piccolo checks and reduces terms of a dependently-typed calculus
extended with user-declared first-order and higher-order-pattern
rewrite rules, following the directive table of a module's source.`,
	}
	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&cfg.StepBudget, "step-budget", 0,
		"Default reduction step budget for eval directives that don't set their own 'with budget N' (0 = unbounded)")

	rootCmd.AddCommand(runCmd(&cfg), replCmd(&cfg))

	ctx := context.Background()
	ctx = withIOStreams(ctx, os.Stdout, os.Stderr)

	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

// applyDefaultBudget fills in --step-budget as the fallback for any
// eval directive that didn't set its own "with budget N", leaving an
// explicit per-directive budget untouched.
func applyDefaultBudget(dirs []surface.Directive, defaultBudget int) {
	if defaultBudget <= 0 {
		return
	}
	for _, dir := range dirs {
		if e, ok := dir.(*surface.Eval); ok && e.Budget == 0 {
			e.Budget = defaultBudget
		}
	}
}

func newLogger(debug bool, ctx context.Context) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(stderrFrom(ctx), &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
