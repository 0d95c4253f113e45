package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/samus-io/stephelper/internal/branding"
	"github.com/samus-io/stephelper/internal/config"
	"github.com/samus-io/stephelper/internal/logger"
	"github.com/samus-io/stephelper/internal/ui"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// log is the diagnostic logger, set up once config is loaded.
var log = logger.Nop()

// errReported marks failures that were already written to the diagnostic
// stream; Execute only uses it for the exit code.
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds steps for a learning-content repository. Each step is a
directory named by a random 35-character identifier, holding per-language
placeholder documents, optional asset directories, and a properties.json record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		l, err := logger.New(config.Current().LogMode)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		log = l
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Fail("Error:"), err)
	}
	log.Sync()
	return err
}
