package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nasalint/nasalint/internal/analyzer"
	tt "github.com/nasalint/nasalint/internal/types"
)

// Engine is the glue collaborators talk to: it reads files, runs the
// analyzer, and applies per-code suppression and path exclusion. The
// analyzer itself is stateless, so one engine can serve concurrent callers
// analyzing different files.
type Engine struct {
	ignoredCodes map[string]bool
	excludePaths []string
}

// NewEngine creates an engine with the given suppressed rule codes and
// excluded path prefixes. Both lists may be nil.
func NewEngine(ignoreCodes, excludePaths []string) *Engine {
	e := &Engine{ignoredCodes: make(map[string]bool)}
	for _, code := range ignoreCodes {
		e.IgnoreCode(code)
	}
	for _, path := range excludePaths {
		e.ExcludePath(path)
	}
	return e
}

// IgnoreCode suppresses every diagnostic carrying the given rule code.
func (e *Engine) IgnoreCode(code string) {
	code = strings.TrimSpace(code)
	if code != "" {
		e.ignoredCodes[code] = true
	}
}

// ExcludePath adds a path prefix to the exclusion list.
func (e *Engine) ExcludePath(path string) {
	path = strings.TrimSpace(path)
	if path != "" {
		e.excludePaths = append(e.excludePaths, filepath.Clean(path))
	}
}

// IsExcluded reports whether the path falls under an excluded prefix or
// matches an excluded pattern by base name.
func (e *Engine) IsExcluded(path string) bool {
	cleaned := filepath.Clean(path)
	for _, prefix := range e.excludePaths {
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+string(filepath.Separator)) {
			return true
		}
		if ok, err := filepath.Match(prefix, filepath.Base(cleaned)); err == nil && ok {
			return true
		}
	}
	return false
}

// Run analyzes a single file on disk.
func (e *Engine) Run(filename string) ([]tt.Diagnostic, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return e.RunSource(source), nil
}

// RunSource analyzes source text directly, dropping suppressed codes.
func (e *Engine) RunSource(source []byte) []tt.Diagnostic {
	diags := analyzer.Analyze(string(source))
	if len(e.ignoredCodes) == 0 {
		return diags
	}

	kept := diags[:0]
	for _, d := range diags {
		if !e.ignoredCodes[d.Code] {
			kept = append(kept, d)
		}
	}
	return kept
}

// SourceCode stores the lines of one source file for snippet rendering.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and splits it into lines.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &SourceCode{Lines: strings.Split(string(content), "\n")}, nil
}
