// Package lint is the public facade over the engine: configuration loading,
// file discovery, and concurrent processing of paths.
package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nasalint/nasalint/internal"
	tt "github.com/nasalint/nasalint/internal/types"
)

// Engine is the subset of the lint engine the facade needs.
type Engine interface {
	Run(filename string) ([]tt.Diagnostic, error)
	RunSource(source []byte) []tt.Diagnostic
	IgnoreCode(code string)
	ExcludePath(path string)
	IsExcluded(path string) bool
}

// FileReport holds the diagnostics of one analyzed file.
type FileReport struct {
	Path        string
	Diagnostics []tt.Diagnostic
}

// Config is the optional YAML configuration file.
type Config struct {
	Name         string   `yaml:"name"`
	IgnoreCodes  []string `yaml:"ignore-codes"`
	ExcludePaths []string `yaml:"exclude-paths"`
}

// New builds an engine from the configuration file at configPath. An empty
// path yields an engine with defaults.
func New(configPath string) (*internal.Engine, error) {
	if configPath == "" {
		return internal.NewEngine(nil, nil), nil
	}
	config, err := parseConfigurationFile(configPath)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(config.IgnoreCodes, config.ExcludePaths), nil
}

func parseConfigurationFile(configPath string) (Config, error) {
	var config Config

	f, err := os.Open(configPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return config, nil
}

// ProcessFiles lints each path (file or directory) and returns per-file
// reports sorted by path. Files without diagnostics get no report.
func ProcessFiles(ctx context.Context, logger *zap.Logger, engine Engine, paths []string) ([]FileReport, error) {
	var reports []FileReport
	for _, path := range paths {
		pathReports, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			if logger != nil {
				logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		reports = append(reports, pathReports...)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, nil
}

// ProcessPath lints one path. Directories are walked for .py files and
// processed by a bounded worker pool with a progress bar.
func ProcessPath(ctx context.Context, logger *zap.Logger, engine Engine, path string) ([]FileReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !isPythonFile(path) || engine.IsExcluded(path) {
			return nil, nil
		}
		diags, err := engine.Run(path)
		if err != nil {
			return nil, err
		}
		if len(diags) == 0 {
			return nil, nil
		}
		return []FileReport{{Path: path, Diagnostics: diags}}, nil
	}

	files, err := collectPythonFiles(engine, path)
	if err != nil {
		return nil, err
	}
	return processConcurrently(ctx, logger, engine, path, files)
}

func collectPythonFiles(engine Engine, dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if engine.IsExcluded(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if isPythonFile(p) && !engine.IsExcluded(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func processConcurrently(ctx context.Context, logger *zap.Logger, engine Engine, dir string, files []string) ([]FileReport, error) {
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(dir),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)

	sem := make(chan struct{}, runtime.NumCPU())
	results := make([]FileReport, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			diags, err := engine.Run(fp)
			if err != nil {
				if logger != nil {
					logger.Error("error processing file", zap.String("file", fp), zap.Error(err))
				}
			} else {
				results[idx] = FileReport{Path: fp, Diagnostics: diags}
			}
			_ = bar.Add(1)
		}(i, file)
	}
	wg.Wait()
	fmt.Println()

	var reports []FileReport
	for _, r := range results {
		if len(r.Diagnostics) > 0 {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func isPythonFile(path string) bool {
	return filepath.Ext(path) == ".py"
}

// FormatDiagnostic renders the plain console form of one diagnostic:
// <path>:<line>:<col>: <code> <message>, with 1-based line and column.
func FormatDiagnostic(path string, d tt.Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d: %s %s",
		path, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Code, d.Message)
}
