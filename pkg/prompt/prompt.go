// Package prompt builds run inputs interactively from a line-oriented console.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"srcbundle/pkg/config"
)

// Prompter asks questions on out and reads one answer per line from in.
// End of input counts as an empty answer.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// New returns a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ask prints message and returns the trimmed answer.
func (p *Prompter) ask(message string) (string, error) {
	fmt.Fprint(p.out, message)
	response, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// ProjectPath asks for the project directory, defaulting to ".".
func (p *Prompter) ProjectPath() (string, error) {
	answer, err := p.ask("Enter the path to your project: ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return ".", nil
	}
	return answer, nil
}

// DefaultOutputDir is offered when asking for the output directory.
func DefaultOutputDir(projectPath string) string {
	return filepath.Join("output", filepath.Base(filepath.Clean(projectPath))+"_combined_output")
}

// OutputDir asks for the output directory, defaulting to DefaultOutputDir.
func (p *Prompter) OutputDir(projectPath string) (string, error) {
	def := DefaultOutputDir(projectPath)
	answer, err := p.ask(fmt.Sprintf("Enter the output directory [%s]: ", def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// UseDefault reports whether the user picked the default configuration.
func (p *Prompter) UseDefault() (bool, error) {
	answer, err := p.ask("Press 'D' to use the default configuration, or any other key to customize: ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "d"), nil
}

// BuildConfiguration collects a custom configuration. Answering "n" to the
// first question starts from empty include, exclude and comment tables;
// anything else starts from the defaults. Further extensions and exclude
// entries are then collected until an empty answer.
func (p *Prompter) BuildConfiguration() (*config.Configuration, error) {
	fmt.Fprintln(p.out, "Interactive Configuration Generator")
	cfg := config.Default()

	answer, err := p.ask("Do you want to use the default configuration? (Y/N): ")
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(answer, "n") {
		cfg.IncludePatterns = []string{}
		cfg.ExcludePatterns = []string{}
		cfg.CommentPrefixes = map[string]string{}

		if err := p.collectExtensions(cfg, "Enter a file extension to include (e.g., .py) or press Enter to finish: "); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(p.out, "\nAdditional Include Patterns")
	if err := p.collectExtensions(cfg, "Enter an additional file extension to include (e.g., .py) or press Enter to finish: "); err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "\nAdditional Exclude Patterns")
	for {
		entry, err := p.ask("Enter an additional folder or file to exclude (e.g., tests/) or press Enter to finish: ")
		if err != nil {
			return nil, err
		}
		if entry == "" {
			break
		}
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, entry)
	}

	return cfg, nil
}

// collectExtensions reads extension and comment marker pairs until an empty
// extension. Each extension becomes an end-anchored include pattern.
func (p *Prompter) collectExtensions(cfg *config.Configuration, message string) error {
	for {
		ext, err := p.ask(message)
		if err != nil {
			return err
		}
		if ext == "" {
			return nil
		}
		marker, err := p.ask(fmt.Sprintf("Enter the comment symbol for %s (e.g., #): ", ext))
		if err != nil {
			return err
		}
		cfg.IncludePatterns = append(cfg.IncludePatterns, ext+"$")
		cfg.CommentPrefixes[ext] = marker
	}
}
