package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"srcbundle/pkg/combine"
	"srcbundle/pkg/config"
	"srcbundle/pkg/ignore"
	"srcbundle/pkg/prompt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// options are the resolved flag and environment values of one invocation.
type options struct {
	ProjectPath string
	OutputDir   string
	ConfigPath  string
	IgnoreFile  string
}

func optionsFrom(v *viper.Viper) options {
	return options{
		ProjectPath: v.GetString(flagProjectPath),
		OutputDir:   v.GetString(flagOutputDir),
		ConfigPath:  v.GetString(flagConfig),
		IgnoreFile:  v.GetString(flagIgnoreFile),
	}
}

// interactive reports whether neither the project path nor the output
// directory were supplied.
func (o options) interactive() bool {
	return o.ProjectPath == "" && o.OutputDir == ""
}

// runCombine resolves the run inputs, either from options or by prompting,
// and executes the combine run.
func runCombine(cmd *cobra.Command, opts options, logger *zap.Logger) error {
	var (
		cfg *config.Configuration
		err error
	)

	if opts.interactive() {
		cfg, err = resolveInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), &opts, logger)
	} else {
		cfg, err = resolveFromOptions(&opts, logger)
	}
	if err != nil {
		return err
	}

	if opts.IgnoreFile != "" {
		patterns, err := ignore.LoadFile(opts.IgnoreFile, opts.ProjectPath, logger)
		if err != nil {
			return err
		}
		cfg = cfg.Clone()
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, patterns...)
	}

	if err := combine.EnsureDirectory(opts.OutputDir, logger); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(opts.OutputDir, combine.OutputFileName(opts.ProjectPath))

	args := combine.Arguments{ProjectPath: opts.ProjectPath, OutputPath: outputPath}
	if _, err := combine.RunCombine(args, cfg, logger); err != nil {
		return fmt.Errorf("combine execution failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Project processing complete. Output saved to %s\n", outputPath)
	return nil
}

// resolveFromOptions fills missing paths with the current directory and loads
// the configuration file when it exists.
func resolveFromOptions(opts *options, logger *zap.Logger) (*config.Configuration, error) {
	if opts.ProjectPath == "" {
		opts.ProjectPath = "."
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err == nil {
			return config.Load(opts.ConfigPath, logger), nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Cannot access configuration file, using default settings",
				zap.String("path", opts.ConfigPath), zap.Error(err))
			return config.Default(), nil
		}
	}
	logger.Debug("No configuration file, using default settings", zap.String("path", opts.ConfigPath))
	return config.Default(), nil
}

// resolveInteractive asks for the project, output directory and
// configuration. A custom configuration is saved to opts.ConfigPath.
func resolveInteractive(in io.Reader, out io.Writer, opts *options, logger *zap.Logger) (*config.Configuration, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		logger.Debug("Standard input is not a terminal, reading answers from it as lines")
	}

	fmt.Fprintln(out, "Entering interactive mode...")
	p := prompt.New(in, out)

	projectPath, err := p.ProjectPath()
	if err != nil {
		return nil, err
	}
	outputDir, err := p.OutputDir(projectPath)
	if err != nil {
		return nil, err
	}
	opts.ProjectPath = projectPath
	opts.OutputDir = outputDir

	useDefault, err := p.UseDefault()
	if err != nil {
		return nil, err
	}
	if useDefault {
		fmt.Fprintln(out, "Using default configuration.")
		return config.Default(), nil
	}

	cfg, err := p.BuildConfiguration()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if opts.ConfigPath != "" {
		if err := config.Save(opts.ConfigPath, cfg); err != nil {
			logger.Warn("Failed to save configuration", zap.String("path", opts.ConfigPath), zap.Error(err))
		} else {
			logger.Info("Saved configuration", zap.String("path", opts.ConfigPath))
		}
	}
	return cfg, nil
}
