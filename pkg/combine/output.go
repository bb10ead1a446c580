package combine

import (
	"os"

	"srcbundle/pkg/config"
)

// BeginRun creates outputPath, truncating any previous content.
func BeginRun(outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return &OutputError{Op: "create", Path: outputPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return &OutputError{Op: "create", Path: outputPath, Err: err}
	}
	return nil
}

// Append writes one labeled block to outputPath: the delimiter formatted for
// filePath, the content, then a newline. The file is opened and closed per
// call so each block is written on its own.
func Append(outputPath, filePath, content, delimiterTemplate string) error {
	out, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &OutputError{Op: "append", Path: outputPath, Err: err}
	}

	block := config.FormatDelimiter(delimiterTemplate, filePath) + content + "\n"
	if _, err := out.WriteString(block); err != nil {
		_ = out.Close()
		return &OutputError{Op: "append", Path: outputPath, Err: err}
	}
	if err := out.Close(); err != nil {
		return &OutputError{Op: "append", Path: outputPath, Err: err}
	}
	return nil
}
