package combine

import (
	"regexp"
	"runtime"
	"strings"
)

// LineTerminator joins the lines of normalized content.
var LineTerminator = lineTerminatorFor(runtime.GOOS)

func lineTerminatorFor(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Normalize strips trailing comments introduced by prefix (when hasPrefix is
// true) and drops blank lines.
//
// Every occurrence of prefix removes itself, the horizontal whitespace before
// it and the rest of its line. String literals are not recognized, so a marker
// inside a quoted string is stripped as well.
func Normalize(text, prefix string, hasPrefix bool) string {
	if hasPrefix && prefix != "" {
		text = commentPattern(prefix).ReplaceAllString(text, "")
	}
	return dropBlankLines(text)
}

// Normalizer applies Normalize with one compiled pattern per comment marker,
// reused across the files of a run. It is not safe for concurrent use.
type Normalizer struct {
	patterns map[string]*regexp.Regexp
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{patterns: make(map[string]*regexp.Regexp)}
}

// Normalize behaves like the package-level Normalize.
func (n *Normalizer) Normalize(text, prefix string, hasPrefix bool) string {
	if hasPrefix && prefix != "" {
		re, ok := n.patterns[prefix]
		if !ok {
			re = commentPattern(prefix)
			n.patterns[prefix] = re
		}
		text = re.ReplaceAllString(text, "")
	}
	return dropBlankLines(text)
}

func dropBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, LineTerminator)
}

// commentPattern matches a literal marker through the end of its line.
// '.' does not match '\n', so the line break itself survives.
func commentPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`[ \t]*` + regexp.QuoteMeta(prefix) + `.*`)
}
