package cmd

import (
	"fmt"

	"github.com/oneconcern/catalog/pkg/registry"
	"github.com/spf13/cobra"
)

var configGet = &cobra.Command{
	Use:   "get NAME",
	Short: "Get the location of a registered clone",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := registry.Load(nil, registryPath())
		if err != nil {
			wrapFatalln("load registry", err)
			return
		}
		path, err := r.Get(args[0])
		if err != nil {
			wrapFatalln("get clone", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

func init() {
	configCmd.AddCommand(configGet)
}
