// Package combine concatenates the selected source files of a project into a
// single text artifact, one delimited block per file.
package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"srcbundle/pkg/config"

	"go.uber.org/zap"
)

// RunCombine walks args.ProjectPath and writes every accepted, normalized file
// to args.OutputPath in walk order. Files that cannot be processed are skipped;
// only an invalid configuration, a missing project root or an output failure
// abort the run.
func RunCombine(args Arguments, cfg *config.Configuration, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting combination process",
		zap.String("directory", args.ProjectPath),
		zap.String("output", args.OutputPath))

	filter, err := NewFilter(cfg)
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return Summary{}, fmt.Errorf("failed to compile patterns: %w", err)
	}

	rootInfo, err := os.Stat(args.ProjectPath)
	if err != nil {
		logger.Error("Failed to access project directory", zap.String("directory", args.ProjectPath), zap.Error(err))
		return Summary{}, fmt.Errorf("failed to access project directory: %w", err)
	}
	if !rootInfo.IsDir() {
		return Summary{}, fmt.Errorf("project path %s is not a directory", args.ProjectPath)
	}

	if err := BeginRun(args.OutputPath); err != nil {
		logger.Error("Failed to create output file", zap.String("file", args.OutputPath), zap.Error(err))
		return Summary{}, err
	}

	r := &run{
		cfg:        cfg,
		filter:     filter,
		normalizer: NewNormalizer(),
		outputPath: args.OutputPath,
		logger:     logger,
	}
	if info, err := os.Stat(args.OutputPath); err == nil {
		r.output = info
	}

	if err := Walk(args.ProjectPath, logger, r.processFile); err != nil {
		return r.summary, fmt.Errorf("failed to process files: %w", err)
	}

	logger.Info("Project processing complete",
		zap.String("output", args.OutputPath),
		zap.Int("written", r.summary.Written),
		zap.Int("skipped", r.summary.Skipped),
		zap.Duration("elapsed", time.Since(startTime)))
	return r.summary, nil
}

// OutputFileName names the output artifact after the project directory.
func OutputFileName(projectPath string) string {
	name := filepath.Base(filepath.Clean(projectPath))
	if name == "." || name == string(filepath.Separator) {
		if abs, err := filepath.Abs(projectPath); err == nil {
			name = filepath.Base(abs)
		}
	}
	return name + ".txt"
}

// EnsureDirectory creates path and any missing parents.
func EnsureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
