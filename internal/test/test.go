// Package test provides testing utilities for the IR rewriter.
//
// This follows esbuild's testing patterns with helper functions
// for assertions, diffs, and golden archives.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
	"github.com/HugoDaniel/irsubst/internal/printer"
	"golang.org/x/tools/txtar"
)

// AssertEqual checks if two values are equal and reports a test error if not.
func AssertEqual[T comparable](t *testing.T, actual, expected T) {
	t.Helper()
	if actual != expected {
		t.Errorf("\nexpected: %v\nactual:   %v", expected, actual)
	}
}

// AssertEqualWithDiff checks if two strings are equal and shows a diff if not.
func AssertEqualWithDiff(t *testing.T, actual, expected string) {
	t.Helper()
	if actual != expected {
		diff := Diff(expected, actual)
		t.Errorf("\n%s", diff)
	}
}

// AssertExprEqual checks two expression trees for structural equality and
// shows a diff of their printed forms if they differ.
func AssertExprEqual(t *testing.T, actual, expected ir.Expr) {
	t.Helper()
	if !ir.Equal(actual, expected) {
		t.Errorf("trees differ\n%s", Diff(printer.PrintExpr(expected), printer.PrintExpr(actual)))
	}
}

// AssertBlockEqual is AssertExprEqual for statement blocks.
func AssertBlockEqual(t *testing.T, actual, expected *stmt.Block) {
	t.Helper()
	if !stmt.EqualBlock(actual, expected) {
		t.Errorf("blocks differ\n%s", Diff(printer.PrintBlock(expected), printer.PrintBlock(actual)))
	}
}

// Diff produces a line-by-line diff between two strings.
// Shows context around differences with +/- prefixes.
func Diff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var result strings.Builder
	result.WriteString("--- expected\n+++ actual\n")

	// Simple line-by-line diff (not LCS for simplicity)
	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	for i := 0; i < maxLines; i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}

		if expLine != actLine {
			if i < len(expectedLines) {
				result.WriteString(fmt.Sprintf("-%s\n", expLine))
			}
			if i < len(actualLines) {
				result.WriteString(fmt.Sprintf("+%s\n", actLine))
			}
		} else {
			result.WriteString(fmt.Sprintf(" %s\n", expLine))
		}
	}

	return result.String()
}

// ----------------------------------------------------------------------------
// Golden Archives
// ----------------------------------------------------------------------------

// Golden is one txtar archive from a testdata directory.
type Golden struct {
	Name    string
	Archive *txtar.Archive
}

// File returns the contents of the named archive member.
func (g *Golden) File(name string) (string, bool) {
	for _, f := range g.Archive.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

// Goldens loads every archive matching pattern, such as
// "testdata/*.txtar". It fails the test when nothing matches.
func Goldens(t *testing.T, pattern string) []Golden {
	t.Helper()
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("bad golden pattern %q: %v", pattern, err)
	}
	if len(paths) == 0 {
		t.Fatalf("no golden archives match %q", pattern)
	}

	goldens := make([]Golden, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		goldens = append(goldens, Golden{
			Name:    strings.TrimSuffix(filepath.Base(path), ".txtar"),
			Archive: txtar.Parse(data),
		})
	}
	return goldens
}
