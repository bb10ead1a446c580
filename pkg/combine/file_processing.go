package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"srcbundle/pkg/config"

	"go.uber.org/zap"
)

// run carries the state of one combine run.
type run struct {
	cfg        *config.Configuration
	filter     *Filter
	normalizer *Normalizer
	outputPath string
	output     os.FileInfo // identity of the output artifact, nil if unknown
	logger     *zap.Logger
	summary    Summary
}

// processFile runs the per-file pipeline: regular-file check, exclusion,
// inclusion, read, normalize, append. Only output errors are returned; every
// other failure skips the file.
func (r *run) processFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		r.skip("Invalid file path", path, zap.Error(err))
		return nil
	}
	if !info.Mode().IsRegular() {
		r.skip("Invalid file path", path, zap.Error(ErrNotRegularFile))
		return nil
	}
	if r.output != nil && os.SameFile(info, r.output) {
		r.skip("Skipping output file", path)
		return nil
	}

	if pattern, excluded := r.filter.ExcludedBy(path); excluded {
		r.skip("Skipping excluded file", path, zap.String("pattern", pattern))
		return nil
	}
	if !r.filter.IsIncluded(path) {
		r.summary.Skipped++
		r.logger.Debug("File matches no include pattern", zap.String("path", path))
		return nil
	}

	content, err := readSourceFile(path)
	if err != nil {
		r.summary.Skipped++
		r.logger.Warn("Failed to read file", zap.String("path", path), zap.Error(err))
		return nil
	}

	prefix, ok := r.cfg.CommentPrefix(filepath.Ext(path))
	normalized := r.normalizer.Normalize(content, prefix, ok)

	if err := Append(r.outputPath, path, normalized, r.cfg.DelimiterTemplate); err != nil {
		r.logger.Error("Failed to append to output file",
			zap.String("output", r.outputPath),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	r.summary.Written++
	r.logger.Debug("Appended file",
		zap.String("path", path),
		zap.Bool("commentsStripped", ok),
		zap.Int("sizeBytes", len(normalized)))
	return nil
}

func (r *run) skip(msg, path string, fields ...zap.Field) {
	r.summary.Skipped++
	r.logger.Info(msg, append([]zap.Field{zap.String("path", path)}, fields...)...)
}

// readSourceFile reads path as UTF-8 text.
func readSourceFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("error reading file %s: %w", path, ErrNotUTF8)
	}
	return string(data), nil
}
