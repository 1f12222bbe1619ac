package main

import (
	"context"
	"io"
)

// iostreams carries the output writers run/repl write through, rather
// than reaching for os.Stdout/os.Stderr directly, so a caller embedding
// piccolo can redirect output by threading a different context.
type iostreams struct {
	stdout io.Writer
	stderr io.Writer
}

type iostreamsKey struct{}

func withIOStreams(ctx context.Context, stdout, stderr io.Writer) context.Context {
	return context.WithValue(ctx, iostreamsKey{}, iostreams{stdout: stdout, stderr: stderr})
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(iostreamsKey{}).(iostreams); ok {
		return s.stdout
	}
	return io.Discard
}

func stderrFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(iostreamsKey{}).(iostreams); ok {
		return s.stderr
	}
	return io.Discard
}
