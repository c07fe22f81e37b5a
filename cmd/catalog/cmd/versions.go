// Copyright © 2020 One Concern

package cmd

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions NAME",
	Short: "List the versions of a catalog",
	Long: `List the versions available locally for a catalog, most recent first.

For a git repository, versions are the tags of the repository. Their notes are the first line of
the tag message. For an archived catalog, versions are the downloaded releases.
`,
	Example: `% catalog versions glottolog
VERSION	NOTES
v4.1   	Glottolog 4.1
v4.0   	Glottolog 4.0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := openCatalog(args[0], newLogger(), false)
		if err != nil {
			wrapFatalln("open catalog", err)
			return
		}

		var infos []catalog.VersionInfo
		for info, err := range c.IterVersions() {
			if err != nil {
				wrapFatalln("list versions", err)
				return
			}
			infos = append(infos, info)
		}
		if err = render(cmd, infos); err != nil {
			wrapFatalln("render versions", err)
		}
	},
}

func versionsTable(w io.Writer, data interface{}) error {
	infos, ok := data.([]catalog.VersionInfo)
	if !ok {
		return fmt.Errorf("unexpected data for versions: %T", data)
	}
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("VERSION", "NOTES")
	for _, info := range infos {
		table.AddRow(info.Tag, info.Notes)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

func init() {
	addPathFlag(versionsCmd)
	addDOIFlag(versionsCmd)
	addPermissiveFlag(versionsCmd)
	addFormatFlag(versionsCmd, "table", map[string]Formatter{
		"table": FormatterFunc(versionsTable),
	})
	rootCmd.AddCommand(versionsCmd)
}
