package customrules

import (
	_ "embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-sourcemap/sourcemap"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
)

// TypesPackage is the import path rule files use for the Rule base class and runtime globals.
const TypesPackage = "@lintperf/rule-types"

//go:embed shim/rule-types.js
var typesShim string

// Loader loads custom rules from TypeScript/JavaScript files.
type Loader struct {
	config *Config
	logger Logger
	fsys   fs.FS
	cache  *TranspileCache
}

// NewLoader creates a new custom rule loader. config may be nil.
func NewLoader(config *Config) *Loader {
	return &Loader{
		config: config,
		logger: config.GetLogger(),
		fsys:   config.getFS(),
		cache:  globalTranspileCache,
	}
}

// LoadRules loads all custom rules from the configured paths.
func (l *Loader) LoadRules(baseConfig *linter.CustomRulesConfig) ([]linter.RuleRunner[*source.File], error) {
	if baseConfig == nil || len(baseConfig.Paths) == 0 {
		return nil, nil
	}

	config := l.mergeConfig(baseConfig)

	files, err := l.resolveFiles(baseConfig.Paths)
	if err != nil {
		return nil, fmt.Errorf("resolving rule files: %w", err)
	}

	if len(files) == 0 {
		return nil, nil
	}

	transpiled, err := l.transpileFiles(files)
	if err != nil {
		return nil, fmt.Errorf("transpiling rules: %w", err)
	}

	rules, err := l.loadRules(transpiled, config)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	return rules, nil
}

// mergeConfig merges the YAML config with the programmatic config, which wins.
func (l *Loader) mergeConfig(base *linter.CustomRulesConfig) *Config {
	config := &Config{
		Timeout: base.GetTimeout(),
		Logger:  l.logger,
		FS:      l.fsys,
	}

	if l.config != nil && l.config.Timeout > 0 {
		config.Timeout = l.config.Timeout
	}

	return config
}

// resolveFiles resolves glob patterns to rule file paths.
func (l *Loader) resolveFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := fs.Glob(l.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			info, err := fs.Stat(l.fsys, match)
			if err != nil {
				return nil, fmt.Errorf("stat %q: %w", match, err)
			}
			if info.IsDir() {
				continue
			}

			ext := strings.ToLower(path.Ext(match))
			if ext != ".ts" && ext != ".js" {
				continue
			}

			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	return files, nil
}

// transpileFiles transpiles TypeScript files to JavaScript, reusing cached results for files
// whose content has not changed.
func (l *Loader) transpileFiles(files []string) ([]*TranspiledRule, error) {
	var transpiled []*TranspiledRule

	for _, file := range files {
		content, err := fs.ReadFile(l.fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", file, err)
		}

		if cached, ok := l.cache.Get(file, content); ok {
			transpiled = append(transpiled, cached)
			continue
		}

		var code string
		var sm *sourcemap.Consumer

		if strings.ToLower(path.Ext(file)) == ".ts" {
			code, sm, err = l.transpileTypeScript(string(content), file)
			if err != nil {
				return nil, fmt.Errorf("transpiling %q: %w", file, err)
			}
		} else {
			code = string(content)
		}

		tr := &TranspiledRule{
			SourceFile: file,
			Code:       code,
			SourceMap:  sm,
		}

		l.cache.Put(file, content, tr)
		transpiled = append(transpiled, tr)
	}

	return transpiled, nil
}

// transpileTypeScript bundles a TypeScript rule with esbuild, resolving the types package to the
// embedded shim.
func (l *Loader) transpileTypeScript(src, filename string) (string, *sourcemap.Consumer, error) {
	typesPlugin := api.Plugin{
		Name: "lintperf-rule-types",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^@lintperf/rule-types$`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      args.Path,
						Namespace: "lintperf-rule-types",
					}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: "lintperf-rule-types"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					return api.OnLoadResult{
						Contents: &typesShim,
						Loader:   api.LoaderJS,
					}, nil
				})
		},
	}

	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   src,
			Sourcefile: filename,
			Loader:     api.LoaderTS,
		},
		Bundle:         true,
		Write:          false,
		Target:         api.ES2020,
		Format:         api.FormatIIFE,
		Sourcemap:      api.SourceMapInline,
		SourcesContent: api.SourcesContentInclude,
		TreeShaking:    api.TreeShakingFalse,
		Plugins:        []api.Plugin{typesPlugin},
		LogLevel:       api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var errMsgs []string
		for _, e := range result.Errors {
			if e.Location != nil {
				errMsgs = append(errMsgs, fmt.Sprintf("%s:%d:%d: %s",
					e.Location.File, e.Location.Line, e.Location.Column, e.Text))
			} else {
				errMsgs = append(errMsgs, e.Text)
			}
		}
		return "", nil, fmt.Errorf("esbuild errors:\n%s", strings.Join(errMsgs, "\n"))
	}

	if len(result.OutputFiles) == 0 {
		return "", nil, fmt.Errorf("esbuild produced no output")
	}

	code := string(result.OutputFiles[0].Contents)

	sm, err := ExtractInlineSourceMap(code)
	if err != nil {
		// rules still run, only without remapped positions
		l.logger.Warn("failed to extract source map from", filename+":", err)
	}

	return code, sm, nil
}

// loadRules executes each transpiled file in its own runtime and wraps the registered rules.
func (l *Loader) loadRules(transpiled []*TranspiledRule, config *Config) ([]linter.RuleRunner[*source.File], error) {
	var rules []linter.RuleRunner[*source.File]

	for _, tr := range transpiled {
		rt, err := NewRuntime(config.GetLogger())
		if err != nil {
			return nil, fmt.Errorf("creating runtime for %q: %w", tr.SourceFile, err)
		}

		if _, err := rt.RunScript(tr.SourceFile, tr.Code); err != nil {
			return nil, fmt.Errorf("executing %q: %w", tr.SourceFile, err)
		}

		jsRules := rt.GetRegisteredRules()
		if len(jsRules) == 0 {
			l.logger.Warn("no rules registered in", tr.SourceFile)
			continue
		}

		for _, jsRule := range jsRules {
			rule, err := NewCustomRule(rt, jsRule, tr.SourceFile, tr.SourceMap, config)
			if err != nil {
				return nil, fmt.Errorf("creating rule from %q: %w", tr.SourceFile, err)
			}
			rules = append(rules, rule)
		}
	}

	return rules, nil
}
