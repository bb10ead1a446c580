package combine

import (
	"fmt"
	"regexp"

	"srcbundle/pkg/config"
)

// compiledPattern keeps the source text next to the compiled form for diagnostics.
type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

// Filter decides which discovered paths are processed. Patterns are searched
// anywhere in the path string, without anchoring or separator normalization.
type Filter struct {
	include []compiledPattern
	exclude []compiledPattern
}

// NewFilter compiles the include and exclude patterns of cfg.
func NewFilter(cfg *config.Configuration) (*Filter, error) {
	include, err := compilePatterns(cfg.IncludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exclude, err := compilePatterns(cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &Filter{include: include, exclude: exclude}, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		compiled = append(compiled, compiledPattern{source: p, re: re})
	}
	return compiled, nil
}

// IsExcluded reports whether path matches at least one exclude pattern.
func (f *Filter) IsExcluded(path string) bool {
	_, ok := f.ExcludedBy(path)
	return ok
}

// ExcludedBy returns the first exclude pattern that matches path.
func (f *Filter) ExcludedBy(path string) (string, bool) {
	for _, p := range f.exclude {
		if p.re.MatchString(path) {
			return p.source, true
		}
	}
	return "", false
}

// IsIncluded reports whether path matches at least one include pattern.
func (f *Filter) IsIncluded(path string) bool {
	for _, p := range f.include {
		if p.re.MatchString(path) {
			return true
		}
	}
	return false
}

// Accepts reports whether path is processed. Exclusion wins over inclusion.
func (f *Filter) Accepts(path string) bool {
	return !f.IsExcluded(path) && f.IsIncluded(path)
}
