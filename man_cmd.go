package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generate man pages",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to build man page: %w", err)
		}

		page = page.WithSection("Copyright", "(C) 2024 dgnsrekt.\nReleased under MIT license.")
		_, err = fmt.Fprint(cmd.OutOrStdout(), page.Build(roff.NewDocument()))
		return err //nolint:wrapcheck
	},
}
