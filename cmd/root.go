package cmd

import (
	"fmt"
	"strings"

	"srcbundle/pkg/logging"
	"srcbundle/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes the environment variables that can stand in for flags,
// e.g. SRCBUNDLE_PROJECT_PATH.
const EnvPrefix = "SRCBUNDLE"

// Flag names.
const (
	flagProjectPath = "project-path"
	flagOutputDir   = "output-dir"
	flagConfig      = "config"
	flagIgnoreFile  = "ignore-file"
	flagDebug       = "debug"
)

// NewRootCmd builds the srcbundle command tree. When logger is nil one is
// built from the --debug flag before the command runs.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "srcbundle",
		Short: "srcbundle combines a project's source files into one text file",
		Long: `srcbundle walks a project directory, keeps the files matching the configured
include patterns and none of the exclude patterns, strips single-line comments
and blank lines, and writes everything to <output-dir>/<project>.txt with a
delimiter naming each file. Run it without --project-path and --output-dir to
answer the questions interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			l, err := logging.Setup(v.GetBool(flagDebug), version.AppName, version.Get().Version)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd, optionsFrom(v), logger)
		},
	}

	flags := rootCmd.Flags()
	flags.String(flagProjectPath, "", "Path to the project directory")
	flags.String(flagOutputDir, "", "Directory to save the output file")
	flags.String(flagConfig, "config.json", "Path to configuration file (JSON, or YAML by extension)")
	flags.String(flagIgnoreFile, "", "Gitignore-style file whose entries are added to the exclude patterns; lines containing a slash are anchored at the project path")
	persistent := rootCmd.PersistentFlags()
	persistent.Bool(flagDebug, false, "Enable debug logging")
	// Accept the underscore spellings (--project_path, --output_dir) as well.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(persistent)

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd(nil).Execute()
}
