package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/catalog/pkg/registry"
	"github.com/spf13/cobra"
)

type registeredClone struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

var configList = &cobra.Command{
	Use:     "list",
	Short:   "List registered clones",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		r, err := registry.Load(nil, registryPath())
		if err != nil {
			wrapFatalln("load registry", err)
			return
		}
		clones := r.List()
		res := make([]registeredClone, 0, len(clones))
		for name, path := range clones {
			res = append(res, registeredClone{Name: name, Path: path})
		}
		sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
		if err = render(cmd, res); err != nil {
			wrapFatalln("render registry", err)
		}
	},
}

func init() {
	addFormatFlag(configList, "table", map[string]Formatter{
		"table": FormatterFunc(func(w io.Writer, data interface{}) error {
			clones := data.([]registeredClone)
			table := uitable.New()
			table.AddRow("NAME", "PATH")
			for _, clone := range clones {
				table.AddRow(clone.Name, clone.Path)
			}
			_, err := fmt.Fprintln(w, table)
			return err
		}),
	})
	configCmd.AddCommand(configList)
}
