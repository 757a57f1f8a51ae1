package main

import (
	"fmt"

	"github.com/phanxgames/cascade"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PAGE",
		Short: "Check a page definition",
		Long:  `Loads the page, mounts it in a dry orchestrator and reports unknown variants, duplicate IDs and tree warnings.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, debug := loggerFor(cmd)
			page, err := loadPage(args[0])
			if err != nil {
				return err
			}
			o := cascade.New(page.Config(cascade.Config{Logger: logger, Debug: debug}))
			if err := page.Mount(o, 0); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, w := range o.CheckTree() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "page is valid: %d nodes, %d registries\n", o.Len(), len(page.Registries))
			return nil
		},
	}
}
