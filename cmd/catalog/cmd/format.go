package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// Formatter renders the result of a command
type Formatter interface {
	Format(io.Writer, interface{}) error
}

// FormatterFunc is a function which satisfies the Formatter interface
type FormatterFunc func(io.Writer, interface{}) error

// Format the data
func (f FormatterFunc) Format(w io.Writer, data interface{}) error {
	return f(w, data)
}

var (
	formatters     = make(map[*cobra.Command]map[string]Formatter)
	defaultFormats = make(map[*cobra.Command]string)

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

func defaultFormatters() map[string]Formatter {
	return map[string]Formatter{
		"json": FormatterFunc(func(w io.Writer, data interface{}) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}),
		"yaml": FormatterFunc(func(w io.Writer, data interface{}) error {
			b, err := yaml.Marshal(data)
			if err != nil {
				return err
			}
			_, err = w.Write(b)
			return err
		}),
	}
}

// addFormatFlag adds an output format flag to a command, with the formatters specific to that command
func addFormatFlag(cmd *cobra.Command, defaultFormat string, specific map[string]Formatter) string {
	format := "output"
	all := defaultFormatters()
	for k, f := range specific {
		all[k] = f
	}
	formatters[cmd] = all
	defaultFormats[cmd] = defaultFormat

	names := make([]string, 0, len(all))
	for k := range all {
		names = append(names, k)
	}
	sort.Strings(names)
	cmd.Flags().StringVarP(&catalogFlags.output.format, format, "o", defaultFormat,
		fmt.Sprintf("The output format, one of: %s", strings.Join(names, ", ")))
	return format
}

// render data in the format requested for this command.
//
// All commands share the same flag variable, so an unset flag stands for the default of the command.
func render(cmd *cobra.Command, data interface{}) error {
	format := catalogFlags.output.format
	if f := cmd.Flags().Lookup("output"); f == nil || !f.Changed {
		format = defaultFormats[cmd]
	}
	f, ok := formatters[cmd][format]
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}
	return f.Format(cmd.OutOrStdout(), data)
}
