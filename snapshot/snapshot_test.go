// Package snapshot_test provides golden snapshot tests for the writer and
// the rewrite passes.
//
// For each HLSL input shader in testdata/in/, the test writes the parsed
// tree back and runs ConvertFromFP32ToFP16. When a <name>.properties file
// sits next to the shader, RemoveUnusedOutputs and RemoveUnusedInputs run
// too, configured by its entry_point, used_outputs, used_inputs and
// exceptions keys. Output is compared to golden files stored in
// testdata/golden/{roundtrip,fp16,outputs,inputs}/.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cznic/mathutil"
	"github.com/magiconair/properties"

	"github.com/gogpu/hlslcc/hlsl"
	"github.com/gogpu/hlslcc/rewrite"
)

// ---------------------------------------------------------------------------
// Test Runner
// ---------------------------------------------------------------------------

// shaderFile represents an input shader loaded from disk.
type shaderFile struct {
	name   string // base name without extension (e.g., "pixel")
	source string // HLSL source code

	// settings from <name>.properties, nil when there is none
	props *properties.Properties
}

// TestSnapshots is the main golden snapshot test. It loads all inputs,
// runs each through the writer and the passes, and compares with golden
// files.
func TestSnapshots(t *testing.T) {
	shaders := loadInputShaders(t, "testdata/in")
	if len(shaders) == 0 {
		t.Fatal("no input shaders found in testdata/in/")
	}

	for i := range shaders {
		shader := &shaders[i]
		t.Run(shader.name, func(t *testing.T) {
			t.Run("roundtrip", func(t *testing.T) {
				code := roundTrip(t, shader.name, shader.source)
				compareGolden(t, goldenPath("roundtrip", shader.name), code)

				// Written source is a fixpoint of parse and write.
				if again := roundTrip(t, shader.name, code); again != code {
					t.Errorf("second round trip differs:\n%s", describeDifference(shader.name+".usf", code, again))
				}
			})

			t.Run("fp16", func(t *testing.T) {
				res, err := rewrite.ConvertFromFP32ToFP16(shader.source)
				if err != nil {
					t.Fatalf("ConvertFromFP32ToFP16: %v", err)
				}
				compareGolden(t, goldenPath("fp16", shader.name), res.Source)
			})

			if shader.props == nil {
				return
			}
			entryPoint := shader.props.MustGetString("entry_point")
			exceptions := list(shader.props, "exceptions")

			if used, ok := shader.props.Get("used_outputs"); ok {
				t.Run("outputs", func(t *testing.T) {
					res, err := rewrite.RemoveUnusedOutputs(shader.source, strings.Fields(used), exceptions, entryPoint)
					if err != nil {
						t.Fatalf("RemoveUnusedOutputs: %v", err)
					}
					compareGolden(t, goldenPath("outputs", shader.name), res.Generated)
					mustParse(t, res.Source)
				})
			}

			if used, ok := shader.props.Get("used_inputs"); ok {
				t.Run("inputs", func(t *testing.T) {
					res, err := rewrite.RemoveUnusedInputs(shader.source, strings.Fields(used), entryPoint)
					if err != nil {
						t.Fatalf("RemoveUnusedInputs: %v", err)
					}
					compareGolden(t, goldenPath("inputs", shader.name), res.Generated)
					mustParse(t, res.Source)
				})
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Shader Loading
// ---------------------------------------------------------------------------

// loadInputShaders reads all .usf files and their settings from the given
// directory.
func loadInputShaders(t *testing.T, dir string) []shaderFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var shaders []shaderFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".usf") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read shader %q: %v", entry.Name(), readErr)
		}
		name := strings.TrimSuffix(entry.Name(), ".usf")
		shader := shaderFile{name: name, source: string(data)}

		propsPath := filepath.Join(dir, name+".properties")
		if _, statErr := os.Stat(propsPath); statErr == nil {
			props, loadErr := properties.LoadFile(propsPath, properties.UTF8)
			if loadErr != nil {
				t.Fatalf("load settings %q: %v", propsPath, loadErr)
			}
			shader.props = props
		}
		shaders = append(shaders, shader)
	}

	// Sort for deterministic test order
	sort.Slice(shaders, func(i, j int) bool {
		return shaders[i].name < shaders[j].name
	})

	return shaders
}

func list(props *properties.Properties, key string) []string {
	return strings.Fields(props.GetString(key, ""))
}

// ---------------------------------------------------------------------------
// Compilation Helpers
// ---------------------------------------------------------------------------

// roundTrip parses source and writes it back.
func roundTrip(t *testing.T, name, source string) string {
	t.Helper()

	var messages hlsl.CompilerMessages
	tu, err := hlsl.Parse(source, name+".usf", &messages)
	if err != nil {
		t.Fatalf("parse %s: %v\n%s", name, err, messages.String())
	}
	defer tu.Release()
	return hlsl.WriteNodesToString(tu.Nodes)
}

// mustParse checks that rewritten source is still valid.
func mustParse(t *testing.T, source string) {
	t.Helper()

	var messages hlsl.CompilerMessages
	tu, err := hlsl.Parse(source, "", &messages)
	if err != nil {
		t.Fatalf("rewritten source does not parse: %v\n%s", err, messages.String())
	}
	tu.Release()
}

func goldenPath(kind, name string) string {
	return filepath.Join("testdata", "golden", kind, name+".usf")
}

// ---------------------------------------------------------------------------
// Golden Files
// ---------------------------------------------------------------------------

// compareGolden checks actual against the golden file at path, or rewrites
// the file when UPDATE_GOLDEN is set.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nOutput begins:\n%s", path, firstLines(actual, 20))
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Checkouts on Windows may carry \r\n.
	expected := strings.ReplaceAll(string(data), "\r\n", "\n")
	actual = strings.ReplaceAll(actual, "\r\n", "\n")
	if expected != actual {
		t.Errorf("output differs from golden file:\n%s", describeDifference(path, expected, actual))
	}
}

// firstDifference returns the position in the golden text of the first
// byte where actual departs from it.
func firstDifference(path, expected, actual string) (hlsl.Position, bool) {
	if expected == actual {
		return hlsl.Position{}, false
	}
	n := mathutil.Min(len(expected), len(actual))
	i := 0
	for i < n && expected[i] == actual[i] {
		i++
	}
	lineStart := strings.LastIndexByte(expected[:i], '\n') + 1
	return hlsl.Position{
		File:   path,
		Line:   1 + strings.Count(expected[:i], "\n"),
		Column: i - lineStart + 1,
	}, true
}

// describeDifference shows the first differing line of both texts with a
// caret under the first differing column, the way the compiler reports
// source errors.
func describeDifference(path, expected, actual string) string {
	pos, ok := firstDifference(path, expected, actual)
	if !ok {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "golden has %d lines, output has %d\n",
		strings.Count(expected, "\n"), strings.Count(actual, "\n"))
	for _, side := range []struct{ label, text string }{
		{"golden", expected},
		{"output", actual},
	} {
		srcErr := &hlsl.SourceError{Message: side.label, Pos: pos, Source: side.text}
		sb.WriteString(strings.TrimSuffix(srcErr.FormatWithContext(), "\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// firstLines returns at most n lines of s.
func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = append(lines[:n], "...")
	}
	return strings.Join(lines, "\n")
}

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		name             string
		expected, actual string
		want             hlsl.Position
		differ           bool
	}{
		{"same", "float a;\n", "float a;\n", hlsl.Position{}, false},
		{"second line", "float a;\nint b;\n", "float a;\nint c;\n", hlsl.Position{File: "x.usf", Line: 2, Column: 5}, true},
		{"truncated", "float a;\nint b;\n", "float a;\n", hlsl.Position{File: "x.usf", Line: 2, Column: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, differ := firstDifference("x.usf", tt.expected, tt.actual)
			if differ != tt.differ || pos != tt.want {
				t.Errorf("firstDifference = %+v, %v; want %+v, %v", pos, differ, tt.want, tt.differ)
			}
		})
	}

	report := describeDifference("x.usf", "float a;\nint b;\n", "float a;\nint c;\n")
	if !strings.Contains(report, "  --> x.usf:2:5\n") || !strings.Contains(report, "  2| int c;\n") {
		t.Errorf("unexpected report:\n%s", report)
	}
}
