// Copyright © 2020 One Concern

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/oneconcern/catalog/pkg/config"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update NAME",
	Short: "Update the local copy of a catalog",
	Long: `Update the local copy of a catalog from its origin.

For a git repository, all remotes are fetched. For an archived catalog, releases which have not
been downloaded yet are retrieved from Zenodo: all of them, or only the one given as version.
`,
	Example: `% catalog update glottolog
% catalog update wals --version v2020.3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		c, err := openCatalog(args[0], logger, false)
		if err != nil {
			wrapFatalln("open catalog", err)
			return
		}
		/* lockfile to prevent concurrent updates of the same catalog */
		cmdLockfile, err := updateLock(c.Name())
		if err != nil {
			wrapFatalln("prepare lock file", err)
			return
		}
		if err = cmdLockfile.TryLock(); err != nil {
			wrapFatalln("failed to acquire update lock", err)
			return
		}
		defer func() {
			if err := cmdLockfile.Unlock(); err != nil {
				wrapFatalln("failed to release update lock", err)
			}
		}()

		if err = c.Update(context.Background(), catalogFlags.catalog.version, logger); err != nil {
			wrapFatalln("update catalog", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", c.Name())
	},
}

// updateLock is a lock file in the configuration directory, named after the catalog
func updateLock(name string) (lockfile.Lockfile, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return lockfile.New(filepath.Join(dir, "."+name+".lock"))
}

func init() {
	addPathFlag(updateCmd)
	addVersionFlag(updateCmd)
	addDOIFlag(updateCmd)
	rootCmd.AddCommand(updateCmd)
}
