package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samus-io/stephelper/internal/config"
	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/spf13/cobra"
)

func init() {
	variantsCmd.AddCommand(variantsShowCmd)
	rootCmd.AddCommand(variantsCmd)
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List built-in step variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		variants, err := manifest.Builtin()
		if err != nil {
			return err
		}
		def := config.Current().Variant

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tLANGUAGES\tAUXILIARY\tDESCRIPTION")
		for _, v := range variants {
			name := v.Name
			if name == def {
				name += " (default)"
			}
			aux := "-"
			if len(v.Auxiliary) > 0 {
				aux = strings.Join(v.Auxiliary, ",")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, strings.Join(v.LanguageCodes(), ","), aux, v.Description)
		}
		return w.Flush()
	},
}

var variantsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a built-in variant manifest",
	Long: `Print a built-in variant as YAML. The output is a valid manifest and can
be copied, edited, and passed back with 'stephelper create --manifest'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := manifest.Lookup(args[0])
		if err != nil {
			return err
		}
		data, err := v.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
