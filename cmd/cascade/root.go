package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/cascade"
	"github.com/phanxgames/cascade/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cascade",
		Short:         "cascade runs declarative enter and hover animations headlessly",
		Long:          `cascade loads YAML page definitions (variants and node trees), checks them and replays scripted scroll, pointer and trigger input frame by frame.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("debug", false, "Log mount, interruption and per-frame stats to stderr")
	root.AddCommand(newValidateCmd(), newReplayCmd(), newVersionCmd())
	return root
}

// loggerFor builds the stderr logger selected by the --debug flag.
func loggerFor(cmd *cobra.Command) (*slog.Logger, bool) {
	debug, _ := cmd.Flags().GetBool("debug")
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(cmd.ErrOrStderr(), level), debug
}

// loadPage reads and parses the page file at path.
func loadPage(path string) (*cascade.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return cascade.LoadPage(data)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cascade",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cascade version %s\n", cascade.Version)
		},
	}
}
