package combine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srcbundle/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// writeTree creates files below root from a path -> content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func runProject(t *testing.T, root string, cfg *config.Configuration) (string, Summary) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.txt")
	summary, err := RunCombine(Arguments{ProjectPath: root, OutputPath: out}, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	return string(data), summary
}

func TestRunCombineSingleFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "x = 1  # comment\n\ny = 2\n",
	})

	got, summary := runProject(t, root, config.Default())

	path := filepath.Join(root, "a.py")
	want := "\n<<<FILENAME:" + path + ">>>\n" + "x = 1" + LineTerminator + "y = 2" + "\n"
	assert.Equal(t, want, got)
	assert.Equal(t, Summary{Written: 1}, summary)
}

func TestRunCombineSkipsDependencyDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/lib.js": "module.exports = 1; // dep\n",
		"src/lib.js":          "export const a = 1; // mine\n",
	})

	got, summary := runProject(t, root, config.Default())

	assert.Contains(t, got, "<<<FILENAME:"+filepath.Join(root, "src", "lib.js")+">>>")
	assert.NotContains(t, got, "node_modules")
	assert.NotContains(t, got, "module.exports")
	assert.Contains(t, got, "export const a = 1;\n")
	assert.Equal(t, Summary{Written: 1, Skipped: 1}, summary)
}

func TestRunCombineOrderAndDelimiters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.go":         "package b\n",
		"a.py":         "a = 1\n",
		"sub/a.py":     "a = 2\n",
		"sub/deep/c.c": "int c;\n",
		"z.rb":         "z = 3\n",
		"notes.md":     "# notes\n",
	})

	got, summary := runProject(t, root, config.Default())

	order := []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "b.go"),
		filepath.Join(root, "sub", "a.py"),
		filepath.Join(root, "sub", "deep", "c.c"),
		filepath.Join(root, "z.rb"),
	}
	last := -1
	for _, p := range order {
		marker := "<<<FILENAME:" + p + ">>>"
		assert.Equal(t, 1, strings.Count(got, marker), "delimiter for %s", p)
		idx := strings.Index(got, marker)
		assert.Greater(t, idx, last, "block for %s out of order", p)
		last = idx
	}
	assert.Equal(t, len(order), strings.Count(got, "<<<FILENAME:"))
	assert.Equal(t, Summary{Written: 5, Skipped: 1}, summary)
}

func TestRunCombineIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":       "package main // entry\n\nfunc main() {}\n",
		"pkg/util.go":   "package pkg\n",
		"pkg/x/y.java":  "class Y {} // y\n",
		"scripts/a.php": "<?php echo 1; // one\n",
	})
	out := filepath.Join(t.TempDir(), "out.txt")
	args := Arguments{ProjectPath: root, OutputPath: out}

	_, err := RunCombine(args, config.Default(), zap.NewNop())
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = RunCombine(args, config.Default(), zap.NewNop())
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestRunCombineUsesExtensionForCommentLookup(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Makefile": "all: build # default\n",
		"app.py":   "run() # go\n",
	})
	cfg := config.Default()
	cfg.IncludePatterns = []string{"Makefile$", `\.py$`}

	got, _ := runProject(t, root, cfg)

	assert.Contains(t, got, "all: build # default\n")
	assert.Contains(t, got, "run()\n")
}

func TestRunCombineSkipsOutputInsideProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": "hello\n",
	})
	cfg := &config.Configuration{
		IncludePatterns:   []string{`\.txt$`},
		DelimiterTemplate: "== {file_path}\n",
	}
	out := filepath.Join(root, "out.txt")
	require.NoError(t, os.WriteFile(out, []byte("previous run\n"), 0o644))

	summary, err := RunCombine(Arguments{ProjectPath: root, OutputPath: out}, cfg, zap.NewNop())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "== "+filepath.Join(root, "a.txt")+"\nhello\n", string(data))
	assert.Equal(t, Summary{Written: 1, Skipped: 1}, summary)
}

func TestRunCombineSkipsUnusableFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"good.py": "ok = True\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "binary.py"), []byte{0xff, 0xfe, 0x00, 'x'}, 0o644))
	dangling := filepath.Join(root, "dangling.py")
	if err := os.Symlink(filepath.Join(root, "nowhere.py"), dangling); err != nil {
		t.Logf("symlinks unavailable: %v", err)
		dangling = ""
	}

	core, logs := observer.New(zapcore.DebugLevel)
	out := filepath.Join(t.TempDir(), "out.txt")
	summary, err := RunCombine(Arguments{ProjectPath: root, OutputPath: out}, config.Default(), zap.New(core))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\n<<<FILENAME:"+filepath.Join(root, "good.py")+">>>\nok = True\n", string(data))

	wantSkipped := 1
	readFailures := logs.FilterMessage("Failed to read file").All()
	require.Len(t, readFailures, 1)
	assert.Equal(t, filepath.Join(root, "binary.py"), readFailures[0].ContextMap()["path"])
	assert.Contains(t, readFailures[0].ContextMap()["error"], ErrNotUTF8.Error())

	if dangling != "" {
		wantSkipped++
		invalid := logs.FilterMessage("Invalid file path").All()
		require.Len(t, invalid, 1)
		assert.Equal(t, dangling, invalid[0].ContextMap()["path"])
	}
	assert.Equal(t, Summary{Written: 1, Skipped: wantSkipped}, summary)
}

func TestRunCombineErrors(t *testing.T) {
	t.Run("invalid pattern", func(t *testing.T) {
		cfg := config.Default()
		cfg.ExcludePatterns = []string{"("}
		_, err := RunCombine(Arguments{ProjectPath: t.TempDir(), OutputPath: filepath.Join(t.TempDir(), "o.txt")}, cfg, nil)
		assert.ErrorContains(t, err, "failed to compile patterns")
	})

	t.Run("missing project", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "o.txt")
		_, err := RunCombine(Arguments{ProjectPath: filepath.Join(t.TempDir(), "absent"), OutputPath: out}, config.Default(), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, out)
	})

	t.Run("project is a file", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.py": "a\n"})
		_, err := RunCombine(Arguments{ProjectPath: filepath.Join(root, "a.py"), OutputPath: filepath.Join(t.TempDir(), "o.txt")}, config.Default(), nil)
		assert.ErrorContains(t, err, "is not a directory")
	})

	t.Run("unwritable output", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.py": "a\n"})
		_, err := RunCombine(Arguments{ProjectPath: root, OutputPath: filepath.Join(t.TempDir(), "no", "o.txt")}, config.Default(), nil)
		var outErr *OutputError
		assert.ErrorAs(t, err, &outErr)
	})
}

func TestWalkVisitsFilesInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.txt":          "",
		"a/z.txt":        "",
		"a/b/c.txt":      "",
		"node_modules/x": "",
	})

	var visited []string
	err := Walk(root, zap.NewNop(), func(path string) error {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		visited = append(visited, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c.txt", "a/z.txt", "b.txt", "node_modules/x"}, visited)
}

func TestWalkStopsOnVisitError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "", "b": ""})
	stop := errors.New("stop")

	calls := 0
	err := Walk(root, zap.NewNop(), func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "proj.txt", OutputFileName("proj"))
	assert.Equal(t, "proj.txt", OutputFileName("some/where/proj/"))
	assert.Equal(t, "proj.txt", OutputFileName(filepath.Join("a", "proj", "..", "proj")))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(wd)+".txt", OutputFileName("."))
}
