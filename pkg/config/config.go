// Package config defines the Configuration consumed by a combine run and the
// built-in defaults it falls back to.
package config

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// PathPlaceholder is replaced with each file's path when formatting the delimiter.
const PathPlaceholder = "{file_path}"

// DefaultExtensions lists the source extensions the default configuration includes.
var DefaultExtensions = []string{
	".py",
	".js",
	".java",
	".cpp",
	".c",
	".cs",
	".php",
	".rb",
	".go",
	".swift",
}

// Configuration holds the rules a combine run applies. Treat it as read-only
// once it has been handed to a run.
type Configuration struct {
	IncludePatterns   []string          // Regexes; a path matching any of them is eligible.
	ExcludePatterns   []string          // Regexes; a path matching any of them is always skipped.
	CommentPrefixes   map[string]string // Extension (with leading dot) to single-line comment marker.
	DelimiterTemplate string            // Separator written before each file, containing PathPlaceholder.
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Configuration {
	includes := make([]string, 0, len(DefaultExtensions))
	for _, ext := range DefaultExtensions {
		includes = append(includes, regexp.QuoteMeta(ext)+"$")
	}

	return &Configuration{
		IncludePatterns: includes,
		ExcludePatterns: []string{
			// Version control
			`\.git/`, `\.svn/`, `\.hg/`,
			// Dependencies
			`node_modules/`, `bower_components/`, `venv/`, `\.venv/`,
			// Build outputs
			`bin/`, `obj/`, `dist/`, `build/`, `\.exe$`, `\.dll$`, `\.so$`, `\.o$`,
			// Configs and secrets
			`\.env$`, `.*.config`, `\.DS_Store`, `Thumbs.db`,
			// Docs and other non-code files
			`\.md$`, `\.txt$`, `\.pdf$`, `\.csv$`,
			// Tests
			`test/`, `tests/`,
			// Temporary and cache files
			`\.tmp$`, `\.cache`, `\.pyc`, `__pycache__/`,
			// Logs
			`\.log`,
			`docs/`, `examples/`, `samples/`,
			// Hidden files and directories, at the top level and below
			`^\.`, `/\.`,
		},
		CommentPrefixes: map[string]string{
			".py":    "#",
			".js":    "//",
			".java":  "//",
			".cpp":   "//",
			".c":     "//",
			".cs":    "//",
			".php":   "//",
			".rb":    "#",
			".go":    "//",
			".swift": "//",
		},
		DelimiterTemplate: "\n<<<FILENAME:" + PathPlaceholder + ">>>\n",
	}
}

// CommentPrefix returns the comment marker configured for ext. The second
// result is false when the extension has no marker, meaning no stripping.
func (c *Configuration) CommentPrefix(ext string) (string, bool) {
	prefix, ok := c.CommentPrefixes[ext]
	if !ok || prefix == "" {
		return "", false
	}
	return prefix, true
}

// Delimiter formats the delimiter template for filePath.
func (c *Configuration) Delimiter(filePath string) string {
	return FormatDelimiter(c.DelimiterTemplate, filePath)
}

// FormatDelimiter substitutes filePath for every PathPlaceholder in template.
func FormatDelimiter(template, filePath string) string {
	return strings.ReplaceAll(template, PathPlaceholder, filePath)
}

// Validate reports every pattern that fails to compile and an empty delimiter.
func (c *Configuration) Validate() error {
	var errs []error
	for _, p := range c.IncludePatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("include pattern %q: %w", p, err))
		}
	}
	for _, p := range c.ExcludePatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("exclude pattern %q: %w", p, err))
		}
	}
	if c.DelimiterTemplate == "" {
		errs = append(errs, errors.New("delimiter template is empty"))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of c.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{
		IncludePatterns:   slices.Clone(c.IncludePatterns),
		ExcludePatterns:   slices.Clone(c.ExcludePatterns),
		CommentPrefixes:   maps.Clone(c.CommentPrefixes),
		DelimiterTemplate: c.DelimiterTemplate,
	}
}
