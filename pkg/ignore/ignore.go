// Package ignore converts gitignore-style glob lines into the unanchored
// regular expressions used as exclude patterns.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Placeholders keep '**' expansions out of the reach of the single '*' rewrite.
const (
	middlePlaceholder   = "\x00m\x00"
	trailingPlaceholder = "\x00t\x00"
	leadingPlaceholder  = "\x00l\x00"
)

var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
)

// Pattern is one converted ignore line.
type Pattern struct {
	Regex  string // Unanchored regex matching walker paths below root.
	Negate bool   // The line started with '!'.
	Line   string // Source line as written.
	LineNo int    // Line number in the source (1-based).
}

// ParseLines converts ignore lines into patterns for paths yielded by walking
// root. Blank lines and comments are dropped.
func ParseLines(root string, lines ...string) []Pattern {
	var patterns []Pattern
	for i, line := range lines {
		regex, negate, ok := parsePatternLine(root, line)
		if !ok {
			continue
		}
		patterns = append(patterns, Pattern{
			Regex:  regex,
			Negate: negate,
			Line:   line,
			LineNo: i + 1,
		})
	}
	return patterns
}

// ExcludePatterns returns the regexes of the non-negated lines. Negations
// cannot be expressed as exclude patterns and are logged and dropped.
func ExcludePatterns(root string, lines []string, logger *zap.Logger) []string {
	var out []string
	for _, p := range ParseLines(root, lines...) {
		if p.Negate {
			logger.Warn("Negated ignore pattern is not supported, skipping",
				zap.String("pattern", p.Line),
				zap.Int("lineNo", p.LineNo))
			continue
		}
		logger.Debug("Converted ignore pattern",
			zap.String("pattern", p.Line),
			zap.String("regex", p.Regex))
		out = append(out, p.Regex)
	}
	return out
}

// LoadFile reads an ignore file and converts it with ExcludePatterns.
func LoadFile(path, root string, logger *zap.Logger) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	patterns := ExcludePatterns(root, lines, logger)
	logger.Info("Compiled ignore patterns", zap.String("filePath", path), zap.Int("patternCount", len(patterns)))
	return patterns, nil
}

// parsePatternLine turns one line into a regex. ok is false for blank lines,
// comments and lines that do not compile.
func parsePatternLine(root, line string) (regex string, negate, ok bool) {
	trimmedLine := strings.TrimSpace(line)

	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return "", false, false
	}

	if strings.HasPrefix(trimmedLine, "!") {
		negate = true
		trimmedLine = strings.TrimPrefix(trimmedLine, "!")
	}

	// `\#` and `\!` escape a literal leading character.
	if strings.HasPrefix(trimmedLine, `\#`) || strings.HasPrefix(trimmedLine, `\!`) {
		trimmedLine = trimmedLine[1:]
	}

	dirOnly := strings.HasSuffix(trimmedLine, "/")
	body := strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "/"), "/")
	if body == "" {
		return "", false, false
	}
	// A slash at the start or in the middle ties the line to root.
	rooted := strings.HasPrefix(trimmedLine, "/") || strings.Contains(body, "/")

	body = escapeSpecialChars(body)
	body = handleDoubleStarPatterns(body)
	body = wildcardToRegex(body)
	regex = anchorPattern(body, root, rooted, dirOnly)

	if _, err := regexp.Compile(regex); err != nil {
		return "", false, false
	}
	return regex, negate, true
}

// escapeSpecialChars escapes regex special characters except for `*`, `?`, and `/`.
func escapeSpecialChars(pattern string) string {
	specialChars := `\.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns marks '**' segments for wildcardToRegex.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllLiteralString(pattern, middlePlaceholder)
	pattern = doubleStarTrailingPattern.ReplaceAllLiteralString(pattern, trailingPlaceholder)
	pattern = doubleStarLeadingPattern.ReplaceAllLiteralString(pattern, leadingPlaceholder)
	return pattern
}

// wildcardToRegex converts `*`, `?` and the '**' placeholders to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)
	pattern = strings.ReplaceAll(pattern, middlePlaceholder, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, trailingPlaceholder, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, leadingPlaceholder, `(.*/)?`)
	return pattern
}

// anchorPattern bounds the pattern at path-segment edges. Rooted patterns are
// tied to root, which prefixes every path the walker yields; the others match
// at any depth.
func anchorPattern(pattern, root string, rooted, dirOnly bool) string {
	suffix := `(/|$)`
	if dirOnly {
		suffix = `/`
	}

	if !rooted {
		return `(^|/)` + pattern + suffix
	}

	root = filepath.ToSlash(filepath.Clean(root))
	if root == "." {
		return `^` + pattern + suffix
	}
	return `^` + regexp.QuoteMeta(strings.TrimSuffix(root, "/")) + `/` + pattern + suffix
}
