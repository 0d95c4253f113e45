package cli

import (
	"fmt"
	"path/filepath"

	"github.com/samus-io/stephelper/internal/config"
	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/samus-io/stephelper/internal/scaffold"
	"github.com/samus-io/stephelper/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	createManifest       string
	createDir            string
	createAuthor         string
	createAuthorGithubID string
	createAttempts       int
)

func init() {
	createCmd.Flags().StringVar(&createManifest, "manifest", "", "Scaffold from a variant manifest file instead of a built-in variant")
	createCmd.Flags().StringVar(&createDir, "dir", ".", "Directory to create the step in")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "Author recorded in properties.json (default from config)")
	createCmd.Flags().StringVar(&createAuthorGithubID, "author-github-id", "", "Author GitHub id recorded in properties.json (default from config)")
	createCmd.Flags().IntVar(&createAttempts, "attempts", 0, "Identifiers to try if the generated one is taken (default from config)")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [variant]",
	Short: "Scaffold a new step",
	Long: `Scaffold a new step directory named by a freshly generated identifier.

Without arguments the configured default variant is used (step-creation).
Run 'stephelper variants' to see the built-in variants.

Examples:
  stephelper create
  stephelper create steps --dir content/steps
  stephelper create --manifest my-variant.yaml --author "Jane Doe"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Current()

		v, err := resolveVariant(args, settings.Variant)
		if err != nil {
			return err
		}
		if err := v.CheckCompatible(buildVersion); err != nil {
			return err
		}

		author, githubID, attempts := settings.Author, settings.AuthorGithubID, settings.Attempts
		if cmd.Flags().Changed("author") {
			author = createAuthor
		}
		if cmd.Flags().Changed("author-github-id") {
			githubID = createAuthorGithubID
		}
		if cmd.Flags().Changed("attempts") {
			attempts = createAttempts
		}

		props := manifest.NewProperties(author, githubID)
		if err := props.Check(); err != nil {
			return fmt.Errorf("%w (set --author/--author-github-id or 'stephelper config set')", err)
		}

		root, err := filepath.Abs(createDir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", createDir, err)
		}
		fsys := afero.NewBasePathFs(afero.NewOsFs(), root)

		res, err := scaffold.CreateStep(cmd.Context(), fsys, v, props, scaffold.Options{
			MaxAttempts: attempts,
			Log:         log,
		})
		out := cmd.OutOrStdout()
		if err != nil {
			log.Error("step scaffold incomplete",
				"step_id", res.ID,
				"variant", v.Name,
				"dir", root,
				"created_dirs", len(res.Dirs),
				"created_files", len(res.Files),
				"error", err,
			)
			if res.ID != "" {
				fmt.Fprintln(out, ui.Warn("Partially created step (left in place):"))
				ui.Tree(out, res.ID, res.Dirs, res.Files)
			}
			return errReported
		}

		fmt.Fprintf(out, "%s %s %s\n", ui.OK("Created step"), res.ID, ui.Muted("("+v.Name+")"))
		ui.Tree(out, res.ID, res.Dirs, res.Files)
		return nil
	},
}

// resolveVariant picks the manifest file, the named built-in, or the
// configured default, in that order.
func resolveVariant(args []string, fallback string) (*manifest.Variant, error) {
	if createManifest != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass either a variant name or --manifest, not both")
		}
		return manifest.LoadFile(createManifest)
	}
	name := fallback
	if len(args) > 0 {
		name = args[0]
	}
	return manifest.Lookup(name)
}
