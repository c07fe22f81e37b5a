// Copyright © 2020 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone NAME [URL]",
	Short: "Clone a catalog and register the clone",
	Long: `Clone the git repository of a catalog, then record the location of the clone in the registry.

The URL defaults to the one declared for the catalog in the catalog definitions.
`,
	Example: `% catalog clone glottolog https://github.com/glottolog/glottolog
% catalog clone concepticon --target ~/data/concepticon`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := definitionFor(args[0])
		if err != nil {
			wrapFatalln("catalog definition", err)
			return
		}
		url := def.URL
		if len(args) > 1 {
			url = args[1]
		}
		if url == "" {
			wrapFatalln(fmt.Sprintf("no repository URL known for catalog %s", def.CanonicalName()), nil)
			return
		}

		logger := newLogger()
		c, err := catalog.CloneAndRegister(context.Background(), def, url, catalogFlags.catalog.target,
			catalog.WithLogger(logger),
			catalog.WithRegistry(registryPath()),
		)
		if err != nil {
			wrapFatalln("clone catalog", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cloned %s into %s\n", c.Name(), c.Dir())
	},
}

func init() {
	addTargetFlag(cloneCmd)
	rootCmd.AddCommand(cloneCmd)
}
