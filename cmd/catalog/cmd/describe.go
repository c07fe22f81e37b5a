// Copyright © 2020 One Concern

package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/catalog/pkg/catalog"
	"github.com/oneconcern/catalog/pkg/version"
	"github.com/spf13/cobra"
)

type catalogDescription struct {
	Name       string                 `json:"name" yaml:"name"`
	Dir        string                 `json:"dir" yaml:"dir"`
	URL        string                 `json:"url,omitempty" yaml:"url,omitempty"`
	State      string                 `json:"state,omitempty" yaml:"state,omitempty"`
	Dirty      *bool                  `json:"dirty,omitempty" yaml:"dirty,omitempty"`
	Latest     string                 `json:"latest,omitempty" yaml:"latest,omitempty"`
	APIVersion string                 `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	JSONLD     map[string]interface{} `json:"jsonld,omitempty" yaml:"jsonld,omitempty"`
}

type dirtyChecker interface {
	IsDirty() (bool, error)
}

var describeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Describe the local copy of a catalog",
	Long: `Describe the local copy of a catalog: its location, its origin and its current state.

When a version is given, the catalog is switched to that version while it is described,
then restored to its previous state.
`,
	Example: `% catalog describe glottolog
NAME  	glottolog
DIR   	/home/user/.config/catalog/glottolog
URL   	https://github.com/glottolog/glottolog
STATE 	v4.1-3-g1c0d5e2
LOCAL 	modified
LATEST	v4.1`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := openCatalog(args[0], newLogger(), true)
		if err != nil {
			wrapFatalln("open catalog", err)
			return
		}

		var desc catalogDescription
		err = c.With(func(c *catalog.Catalog) error {
			var derr error
			desc, derr = describeCatalog(c)
			return derr
		})
		if err != nil {
			wrapFatalln("describe catalog", err)
			return
		}
		if err = render(cmd, desc); err != nil {
			wrapFatalln("render description", err)
		}
	},
}

func describeCatalog(c *catalog.Catalog) (catalogDescription, error) {
	desc := catalogDescription{
		Name:       c.Name(),
		Dir:        c.Dir(),
		URL:        c.URL(),
		APIVersion: c.APIVersion(),
	}
	state, err := c.Describe()
	if err != nil {
		return desc, err
	}
	desc.State = state

	if d, ok := c.Backend().(dirtyChecker); ok {
		dirty, err := d.IsDirty()
		if err != nil {
			return desc, err
		}
		desc.Dirty = &dirty
	}

	versions, err := c.SupportedVersions()
	if err != nil {
		return desc, err
	}
	if latest, ok := version.Latest(versions); ok {
		desc.Latest = latest
	}
	desc.JSONLD = c.JSONLD(nil)
	return desc, nil
}

func describeTable(w io.Writer, data interface{}) error {
	desc, ok := data.(catalogDescription)
	if !ok {
		return fmt.Errorf("unexpected data for description: %T", data)
	}
	table := uitable.New()
	table.MaxColWidth = 100
	table.AddRow("NAME", desc.Name)
	table.AddRow("DIR", desc.Dir)
	if desc.URL != "" {
		table.AddRow("URL", desc.URL)
	}
	table.AddRow("STATE", desc.State)
	if desc.Dirty != nil {
		local := color.GreenString("clean")
		if *desc.Dirty {
			local = color.RedString("modified")
		}
		table.AddRow("LOCAL", local)
	}
	if desc.Latest != "" {
		table.AddRow("LATEST", desc.Latest)
	}
	if desc.APIVersion != "" {
		table.AddRow("API", desc.APIVersion)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

func init() {
	addPathFlag(describeCmd)
	addVersionFlag(describeCmd)
	addDOIFlag(describeCmd)
	addPermissiveFlag(describeCmd)
	addFormatFlag(describeCmd, "table", map[string]Formatter{
		"table": FormatterFunc(describeTable),
	})
	rootCmd.AddCommand(describeCmd)
}
