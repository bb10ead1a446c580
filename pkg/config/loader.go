package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk layout. Pointer fields distinguish a missing
// key from an explicitly empty one.
type document struct {
	IncludePatterns *[]string          `json:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns *[]string          `json:"exclude_patterns" yaml:"exclude_patterns"`
	CommentPatterns *map[string]string `json:"comment_patterns" yaml:"comment_patterns"`
	OutputFormat    *outputFormat      `json:"output_format" yaml:"output_format"`
}

type outputFormat struct {
	Delimiter *string `json:"delimiter" yaml:"delimiter"`
}

// MarshalYAML writes the delimiter double-quoted. A block scalar cannot carry
// the template's leading newline through a decode.
func (f outputFormat) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if f.Delimiter != nil {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "delimiter"},
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: *f.Delimiter},
		)
	}
	return node, nil
}

// Load reads the configuration at path. It never fails: a missing, unreadable
// or malformed file is reported through logger and Default is returned.
func Load(path string, logger *zap.Logger) *Configuration {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Configuration file not found, using default settings", zap.String("path", path))
		} else {
			logger.Warn("Failed to read configuration file, using default settings", zap.String("path", path), zap.Error(err))
		}
		return Default()
	}

	cfg, err := Parse(data, isYAML(path), logger)
	if err != nil {
		logger.Warn("Failed to parse configuration file, using default settings", zap.String("path", path), zap.Error(err))
		return Default()
	}

	logger.Debug("Loaded configuration file",
		zap.String("path", path),
		zap.Int("includePatterns", len(cfg.IncludePatterns)),
		zap.Int("excludePatterns", len(cfg.ExcludePatterns)))
	return cfg
}

// Parse decodes a configuration document. Keys missing from the document are
// filled from Default. The result is validated before it is returned.
func Parse(data []byte, asYAML bool, logger *zap.Logger) (*Configuration, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc document
	if asYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	cfg := Default()
	if doc.IncludePatterns != nil {
		cfg.IncludePatterns = *doc.IncludePatterns
	} else {
		logger.Debug("include_patterns missing, using defaults")
	}
	if doc.ExcludePatterns != nil {
		cfg.ExcludePatterns = *doc.ExcludePatterns
	} else {
		logger.Debug("exclude_patterns missing, using defaults")
	}
	if doc.CommentPatterns != nil {
		cfg.CommentPrefixes = *doc.CommentPatterns
	} else {
		logger.Debug("comment_patterns missing, using defaults")
	}
	if doc.OutputFormat != nil && doc.OutputFormat.Delimiter != nil {
		cfg.DelimiterTemplate = *doc.OutputFormat.Delimiter
	} else {
		logger.Debug("output_format.delimiter missing, using default")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, as YAML when the extension asks for it and as
// indented JSON otherwise.
func Save(path string, cfg *Configuration) error {
	delimiter := cfg.DelimiterTemplate
	comments := cfg.CommentPrefixes
	if comments == nil {
		comments = map[string]string{}
	}
	doc := document{
		IncludePatterns: nonNil(cfg.IncludePatterns),
		ExcludePatterns: nonNil(cfg.ExcludePatterns),
		CommentPatterns: &comments,
		OutputFormat:    &outputFormat{Delimiter: &delimiter},
	}

	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
	} else {
		// Keep the <<< >>> delimiter readable instead of \u003c escapes.
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration %s: %w", path, err)
	}
	return nil
}

func nonNil(s []string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
