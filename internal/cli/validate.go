package cli

import (
	"fmt"
	"path/filepath"

	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/samus-io/stephelper/internal/scaffold"
	"github.com/samus-io/stephelper/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	validateVariant  string
	validateManifest string
)

func init() {
	validateCmd.Flags().StringVar(&validateVariant, "variant", "", "Built-in variant the step was created from (default from config)")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "Variant manifest file the step was created from")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <step-dir>",
	Short: "Check an existing step against its variant",
	Long: `Check that a step directory has a well-formed identifier, every directory
and placeholder its variant describes, and a properties.json that matches the
properties schema. Placeholder contents are not compared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			v   *manifest.Variant
			err error
		)
		switch {
		case validateManifest != "":
			v, err = manifest.LoadFile(validateManifest)
		case validateVariant != "":
			v, err = manifest.Lookup(validateVariant)
		default:
			v, err = manifest.Lookup(configuredVariant())
		}
		if err != nil {
			return err
		}

		stepDir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		id := filepath.Base(stepDir)
		fsys := afero.NewBasePathFs(afero.NewOsFs(), filepath.Dir(stepDir))

		report, err := scaffold.Inspect(fsys, id, v)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if report.OK() {
			fmt.Fprintf(out, "%s %s %s\n", ui.OK("Step OK"), id, ui.Muted("("+v.Name+")"))
			return nil
		}

		fmt.Fprintf(out, "%s %s %s\n", ui.Fail("Step has problems"), id, ui.Muted("("+v.Name+")"))
		if !report.ValidID {
			fmt.Fprintf(out, "  - %s\n", ui.Warn("identifier is not a 35-character alphanumeric id"))
		}
		for _, d := range report.MissingDirs {
			fmt.Fprintf(out, "  - missing directory %s\n", ui.Path(d))
		}
		for _, f := range report.MissingFiles {
			fmt.Fprintf(out, "  - missing file %s\n", ui.Path(f))
		}
		if report.PropertiesError != nil {
			fmt.Fprintf(out, "  - %v\n", report.PropertiesError)
		}
		for _, issue := range report.PropertyIssues {
			fmt.Fprintf(out, "  - %s: %s\n", manifest.PropertiesFile, issue)
		}
		log.Warn("step validation failed", "step_id", id, "variant", v.Name)
		return errReported
	},
}
