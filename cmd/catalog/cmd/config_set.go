package cmd

import (
	"fmt"

	"github.com/oneconcern/catalog/pkg/registry"
	"github.com/spf13/cobra"
)

var configAdd = &cobra.Command{
	Use:   "add NAME PATH",
	Short: "Register an existing local copy of a catalog",
	Example: `% catalog config add glottolog ~/data/glottolog
registered glottolog: /home/user/data/glottolog`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		err := registry.Update(nil, registryPath(), func(r *registry.Registry) error {
			if err := r.Add(args[0], args[1]); err != nil {
				return err
			}
			var err error
			path, err = r.Get(args[0])
			return err
		})
		if err != nil {
			wrapFatalln("register clone", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s: %s\n", args[0], path)
	},
}

var configRemove = &cobra.Command{
	Use:     "remove NAME",
	Short:   "Remove a clone from the registry. The local copy is left untouched",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := registry.Update(nil, registryPath(), func(r *registry.Registry) error {
			return r.Remove(args[0])
		})
		if err != nil {
			wrapFatalln("unregister clone", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unregistered %s\n", args[0])
	},
}

func init() {
	configCmd.AddCommand(configAdd)
	configCmd.AddCommand(configRemove)
}
