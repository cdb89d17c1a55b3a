package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
)

func slogDefault() *slog.Logger {
	return slog.Default()
}

func restoreSlog(l *slog.Logger) {
	slog.SetDefault(l)
}

// mustFind returns the subcommand of root named name.
func mustFind(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, sub := range root.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("subcommand %q not registered", name)
	return nil
}
